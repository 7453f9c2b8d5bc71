package stereo_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/stereo"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// Repo is a contract with two implementations.
type Repo interface {
	Find() string
}

// RepoImpl defaults its alias to "repoImpl".
type RepoImpl struct {
	stereo.Repository
}

func (*RepoImpl) Find() string { return "found" }

type OtherRepo struct {
	stereo.Repository `name:"otherRepo"`
}

func (*OtherRepo) Find() string { return "other" }

// SvcImpl receives its Repo by type.
type SvcImpl struct {
	stereo.Service

	repo Repo `autowired:""`
}

// Svc is the contract of NamedSvc.
type Svc interface {
	Repo() Repo
}

// NamedSvc registers under the explicit alias "svc".
type NamedSvc struct {
	stereo.Service `name:"svc"`

	repo Repo `autowired:""`
}

func (s *NamedSvc) Repo() Repo { return s.repo }

// XFirst and XSecond both claim the alias "x".
type XFirst struct {
	stereo.Service `name:"x"`
}

type XSecond struct {
	stereo.Component `name:"x"`
}

// Lonely depends on a name nobody registers.
type Lonely struct {
	stereo.Component

	ghost Repo `autowired:"ghost"`
}

// Ping and Pong reference each other.
type Ping struct {
	stereo.Component

	Pong *Pong `autowired:"pong"`
}

type Pong struct {
	stereo.Component

	Ping *Ping `autowired:"ping"`
}

// Broken fails while being constructed.
type Broken struct {
	stereo.Component
}

func (*Broken) Construct() error { return errors.New("no database") }

// Layered carries several stereotypes; the Controller name wins because the
// Repository marker has none.
type Layered struct {
	stereo.Component  `name:"layeredComponent"`
	stereo.Controller `name:"layeredController"`
	stereo.Repository
}

// Warm records that Initialize ran after wiring.
type Warm struct {
	stereo.Component

	Repo  Repo `autowired:""`
	ready bool
}

func (w *Warm) Initialize() error {
	w.ready = w.Repo != nil
	return nil
}

// Plain carries no stereotype and is never managed.
type Plain struct {
	Repo Repo `autowired:""`
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// newCatalog builds a catalog with loaders filed under explicit names so tests
// control the namespace tree.
func newCatalog(t *testing.T, entries map[string]reflect.Type) *stereo.Catalog {
	t.Helper()

	cat := stereo.NewCatalog()
	for name, typ := range entries {
		var opts []stereo.TypeOption
		if reflect.PointerTo(typ).Implements(typeOf[Repo]()) {
			opts = append(opts, stereo.Implements[Repo]())
		}

		typ := typ
		require.NoError(t, cat.AddLoader(name, func() (reflect.Type, error) { return typ, nil }, opts...))
	}
	return cat
}

func build(t *testing.T, root string, entries map[string]reflect.Type, opts ...stereo.Option) *stereo.Container {
	t.Helper()

	opts = append([]stereo.Option{stereo.WithCatalog(newCatalog(t, entries))}, opts...)
	c, err := stereo.NewWithRoot(root, opts...)
	require.NoError(t, err)
	return c
}
