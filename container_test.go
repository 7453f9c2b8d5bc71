package stereo_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/stereo"
)

func TestContainer_RepoAndService(t *testing.T) {
	c := build(t, "example.com/app", map[string]reflect.Type{
		"example.com/app/dao.RepoImpl":    typeOf[RepoImpl](),
		"example.com/app/service.SvcImpl": typeOf[SvcImpl](),
	})

	byAlias, ok := c.Lookup("repoImpl")
	require.True(t, ok)
	byContract, ok := c.Lookup(stereo.ContractName[Repo]())
	require.True(t, ok)
	assert.Same(t, byAlias, byContract)

	svc := stereo.MustBean[*SvcImpl](c, "svcImpl")
	assert.Same(t, byAlias, svc.repo)
	assert.False(t, c.Diagnostics().HasFailures())
}

func TestContainer_ExplicitServiceAlias(t *testing.T) {
	cat := stereo.NewCatalog()
	require.NoError(t, cat.AddLoader("app/dao.RepoImpl", func() (reflect.Type, error) {
		return typeOf[RepoImpl](), nil
	}, stereo.Implements[Repo]()))
	require.NoError(t, cat.AddLoader("app/service.NamedSvc", func() (reflect.Type, error) {
		return typeOf[NamedSvc](), nil
	}, stereo.Implements[Svc]()))

	c, err := stereo.NewWithRoot("app", stereo.WithCatalog(cat), stereo.WithStrict(true))
	require.NoError(t, err)

	byAlias, ok := c.Lookup("repoImpl")
	require.True(t, ok)
	byContract, ok := c.Lookup(stereo.ContractName[Repo]())
	require.True(t, ok)
	assert.Same(t, byAlias, byContract)

	svc, ok := c.Lookup("svc")
	require.True(t, ok)
	assert.Same(t, byContract, svc.(*NamedSvc).repo)

	bySvcContract, err := stereo.Contract[Svc](c)
	require.NoError(t, err)
	assert.Same(t, svc, bySvcContract)
	assert.Same(t, byContract, bySvcContract.Repo())

	assert.Equal(t, []string{"repoImpl", stereo.ContractName[Repo](), "svc", stereo.ContractName[Svc]()}, c.Names())
}

func TestContainer_DiscoveryCompleteness(t *testing.T) {
	c := build(t, "example.com/app", map[string]reflect.Type{
		"example.com/app.RepoImpl":              typeOf[RepoImpl](),
		"example.com/app/service.SvcImpl":       typeOf[SvcImpl](),
		"example.com/app/service/deep/x.Ping":   typeOf[Ping](),
		"example.com/app/service/deep/x/y.Pong": typeOf[Pong](),
		"example.com/application.Lonely":        typeOf[Lonely](),
		"example.com/other.Broken":              typeOf[Broken](),
	})

	for _, alias := range []string{"repoImpl", "svcImpl", "ping", "pong"} {
		_, ok := c.Lookup(alias)
		assert.True(t, ok, alias)
	}

	for _, alias := range []string{"lonely", "broken"} {
		_, ok := c.Lookup(alias)
		assert.False(t, ok, "%s lives outside the scanned namespace", alias)
	}
}

func TestContainer_SubtreeScan(t *testing.T) {
	entries := map[string]reflect.Type{
		"example.com/app/dao.RepoImpl":    typeOf[RepoImpl](),
		"example.com/app/service.SvcImpl": typeOf[SvcImpl](),
	}

	c := build(t, "example.com/app/service/", entries)
	assert.Nil(t, c.GetBean("repoImpl"))

	svc := stereo.MustBean[*SvcImpl](c, "svcImpl")
	assert.Nil(t, svc.repo, "the repository was never scanned")
	require.Len(t, c.Diagnostics().Resolution, 1)
	assert.ErrorIs(t, c.Diagnostics().Resolution[0], stereo.ErrUnresolved)
}

func TestContainer_SingletonPerType(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
		"example.com/app.SvcImpl":  typeOf[SvcImpl](),
		"example.com/app.Warm":     typeOf[Warm](),
	})

	first := c.GetBean("repoImpl")
	assert.Same(t, first, c.GetBean("repoImpl"))
	assert.Same(t, first, stereo.MustBean[*SvcImpl](c, "svcImpl").repo)
	assert.Same(t, first, stereo.MustBean[*Warm](c, "warm").Repo)
}

func TestContainer_AliasCollisionFirstWins(t *testing.T) {
	c := build(t, "example.com/app", map[string]reflect.Type{
		"example.com/app/a.XFirst":  typeOf[XFirst](),
		"example.com/app/b.XSecond": typeOf[XSecond](),
	})

	x, err := stereo.Bean[*XFirst](c, "x")
	require.NoError(t, err)
	assert.NotNil(t, x)

	diags := c.Diagnostics()
	assert.False(t, diags.HasFailures(), "collisions are not failures")
	require.Len(t, diags.Collisions, 1)
	assert.Equal(t, "x", diags.Collisions[0].Alias)
	assert.Equal(t, stereo.TypeName(typeOf[XSecond]()), diags.Collisions[0].Loser)

	beans := c.Beans()
	require.Len(t, beans, 1, "the loser is unreachable")
	assert.Equal(t, []string{"x"}, beans[0].Keys)
}

func TestContainer_CollisionIsNotAnErrorInStrictMode(t *testing.T) {
	_, err := stereo.NewWithRoot("", stereo.WithStrict(true), stereo.WithCatalog(newCatalog(t, map[string]reflect.Type{
		"example.com/app.XFirst":  typeOf[XFirst](),
		"example.com/app.XSecond": typeOf[XSecond](),
	})))
	assert.NoError(t, err)
}

func TestContainer_UnresolvedField(t *testing.T) {
	entries := map[string]reflect.Type{"example.com/app.Lonely": typeOf[Lonely]()}

	t.Run("lenient", func(t *testing.T) {
		c := build(t, "", entries)

		lonely := stereo.MustBean[*Lonely](c, "lonely")
		assert.Nil(t, lonely.ghost)

		diags := c.Diagnostics()
		require.Len(t, diags.Resolution, 1)

		var rerr stereo.ResolutionError
		require.ErrorAs(t, diags.Resolution[0], &rerr)
		assert.Equal(t, "lonely", rerr.Alias)
		assert.Equal(t, "ghost", rerr.Key)
		assert.Equal(t, []string{"ghost"}, c.Dependencies("lonely"))
	})

	t.Run("strict", func(t *testing.T) {
		c, err := stereo.NewWithRoot("", stereo.WithStrict(true), stereo.WithCatalog(newCatalog(t, entries)))
		assert.Nil(t, c)
		require.Error(t, err)
		assert.ErrorIs(t, err, stereo.ErrUnresolved)

		var werr *stereo.WiringError
		require.ErrorAs(t, err, &werr)
		assert.NotEmpty(t, werr.ContainerID)
		assert.Len(t, werr.Errors(), 1)
		assert.Contains(t, err.Error(), "ghost")
	})
}

func TestContainer_Cycles(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app.Ping": typeOf[Ping](),
		"example.com/app.Pong": typeOf[Pong](),
	})

	ping := stereo.MustBean[*Ping](c, "ping")
	pong := stereo.MustBean[*Pong](c, "pong")
	assert.Same(t, pong, ping.Pong)
	assert.Same(t, ping, pong.Ping)
}

func TestContainer_FailureIsolation(t *testing.T) {
	cat := newCatalog(t, map[string]reflect.Type{
		"example.com/app.Broken":   typeOf[Broken](),
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
		"example.com/app.Plain":    typeOf[Plain](),
	})
	require.NoError(t, cat.AddLoader("example.com/app.Gone", func() (reflect.Type, error) {
		return nil, errors.New("class not found")
	}))

	c, err := stereo.NewWithRoot("example.com/app", stereo.WithCatalog(cat))
	require.NoError(t, err)

	assert.NotNil(t, c.GetBean("repoImpl"))
	assert.Nil(t, c.GetBean("broken"))
	assert.Nil(t, c.GetBean("plain"), "unmarked types are never managed")

	diags := c.Diagnostics()
	require.Len(t, diags.Load, 1)
	var lerr stereo.LoadError
	require.ErrorAs(t, diags.Load[0], &lerr)
	assert.Equal(t, "example.com/app.Gone", lerr.Name)

	require.Len(t, diags.Construction, 1)
	var cerr stereo.ConstructionError
	require.ErrorAs(t, diags.Construction[0], &cerr)
	assert.Equal(t, "broken", cerr.Alias)

	_, err = stereo.NewWithRoot("example.com/app", stereo.WithCatalog(cat), stereo.WithStrict(true))
	var werr *stereo.WiringError
	require.ErrorAs(t, err, &werr)
	assert.Len(t, werr.Errors(), 2)
}

func TestContainer_UnknownRoot(t *testing.T) {
	entries := map[string]reflect.Type{"example.com/app.RepoImpl": typeOf[RepoImpl]()}

	c := build(t, "example.com/nope", entries)
	assert.Zero(t, c.Len())
	require.Len(t, c.Diagnostics().Discovery, 1)
	assert.ErrorIs(t, c.Diagnostics().Discovery[0], stereo.ErrNamespaceNotFound)
	assert.True(t, stereo.IsNotFound(c.Diagnostics().Discovery[0]))

	_, err := stereo.NewWithRoot("example.com/nope", stereo.WithStrict(true), stereo.WithCatalog(newCatalog(t, entries)))
	assert.ErrorIs(t, err, stereo.ErrNamespaceNotFound)
}

func TestContainer_ContractLastWriteWins(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app/a.RepoImpl":  typeOf[RepoImpl](),
		"example.com/app/b.OtherRepo": typeOf[OtherRepo](),
		"example.com/app/c.SvcImpl":   typeOf[SvcImpl](),
	})

	contract, err := stereo.Contract[Repo](c)
	require.NoError(t, err)
	assert.Same(t, c.GetBean("otherRepo"), contract)
	assert.Same(t, contract, stereo.MustBean[*SvcImpl](c, "svcImpl").repo)

	overrides := c.Diagnostics().Overrides
	require.Len(t, overrides, 1)
	assert.Equal(t, stereo.ContractName[Repo](), overrides[0].Contract)
	assert.Equal(t, stereo.TypeName(typeOf[RepoImpl]()), overrides[0].Previous)

	// The replaced holder stays reachable through its alias.
	assert.Equal(t, "found", stereo.MustBean[Repo](c, "repoImpl").Find())
}

func TestContainer_Initializers(t *testing.T) {
	entries := map[string]reflect.Type{
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
		"example.com/app.Warm":     typeOf[Warm](),
	}

	c := build(t, "", entries)
	assert.True(t, stereo.MustBean[*Warm](c, "warm").ready)

	c = build(t, "", entries, stereo.WithInitializers(false))
	assert.False(t, stereo.MustBean[*Warm](c, "warm").ready)
}

func TestContainer_Beans(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app.Layered":  typeOf[Layered](),
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
	})

	beans := c.Beans()
	require.Len(t, beans, 2)

	layered := beans[0]
	assert.Equal(t, "layeredController", layered.Alias)
	assert.True(t, layered.OwnsAlias)
	assert.Equal(t, reflect.PointerTo(typeOf[Layered]()), layered.Type)
	assert.Equal(t, []stereo.Stereotype{
		stereo.RepositoryStereotype,
		stereo.ControllerStereotype,
		stereo.ComponentStereotype,
	}, layered.Stereotypes)

	repo := beans[1]
	assert.Equal(t, []reflect.Type{typeOf[Repo]()}, repo.Contracts)
	assert.Equal(t, []string{"repoImpl", stereo.ContractName[Repo]()}, repo.Keys)
}

func TestContainer_Names(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
		"example.com/app.SvcImpl":  typeOf[SvcImpl](),
	})

	assert.Equal(t, []string{"repoImpl", stereo.ContractName[Repo](), "svcImpl"}, c.Names())
	assert.Equal(t, 3, c.Len())
	assert.NotEmpty(t, c.ID())
	assert.Contains(t, c.String(), c.ID())
}

func TestContainer_Isolation(t *testing.T) {
	entries := map[string]reflect.Type{
		"example.com/app.RepoImpl":      typeOf[RepoImpl](),
		"example.com/app/svc.SvcImpl":   typeOf[SvcImpl](),
		"example.com/app/web.Ping":      typeOf[Ping](),
		"example.com/app/web.Pong":      typeOf[Pong](),
		"example.com/app/web.XFirst":    typeOf[XFirst](),
		"example.com/app/web.XSecond":   typeOf[XSecond](),
		"example.com/app/dao.OtherRepo": typeOf[OtherRepo](),
	}

	a := build(t, "", entries)
	b := build(t, "", entries)
	assert.NotSame(t, a.GetBean("repoImpl"), b.GetBean("repoImpl"))
	assert.NotEqual(t, a.ID(), b.ID())

	assert.Equal(t, a.Names(), b.Names(), "rebuilding over the same inputs yields the same keys")
	for _, name := range a.Names() {
		assert.IsType(t, a.GetBean(name), b.GetBean(name), name)
	}
}

func TestContainer_ConcurrentLookups(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
		"example.com/app.SvcImpl":  typeOf[SvcImpl](),
	})
	want := c.GetBean("repoImpl")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Same(t, want, c.GetBean("repoImpl"))
			_ = c.Names()
			_ = c.Beans()
		}()
	}
	wg.Wait()
}

func TestContainer_WriteGraph(t *testing.T) {
	c := build(t, "", map[string]reflect.Type{
		"example.com/app.RepoImpl": typeOf[RepoImpl](),
		"example.com/app.SvcImpl":  typeOf[SvcImpl](),
		"example.com/app.Lonely":   typeOf[Lonely](),
	})

	var text bytes.Buffer
	require.NoError(t, c.WriteGraph(&text, stereo.GraphText))
	assert.Contains(t, text.String(), "svcImpl")
	assert.Contains(t, text.String(), "ghost")
	assert.Contains(t, text.String(), "repo -> repoImpl via "+stereo.ContractName[Repo]())

	assert.Equal(t, []string{stereo.ContractName[Repo]()}, c.Dependencies("svcImpl"))
	assert.Equal(t, []string{"svcImpl"}, c.Dependents("repoImpl"))

	var dot bytes.Buffer
	require.NoError(t, c.WriteGraph(&dot, stereo.GraphDOT))
	assert.Contains(t, dot.String(), "digraph")
	assert.Contains(t, dot.String(), "dashed")

	assert.Error(t, c.WriteGraph(&dot, stereo.GraphFormat(99)))
}

func TestNew_FromDescriptor(t *testing.T) {
	t.Setenv("STEREO_COMPONENT_SCAN", "")
	t.Setenv("STEREO_STRICT", "")

	entries := map[string]reflect.Type{
		"example.com/app/dao.RepoImpl":    typeOf[RepoImpl](),
		"example.com/app/service.SvcImpl": typeOf[SvcImpl](),
		"example.com/app/web.Lonely":      typeOf[Lonely](),
	}

	dir := t.TempDir()
	lenient := filepath.Join(dir, "applicationContext.xml")
	require.NoError(t, os.WriteFile(lenient, []byte(
		`<beans><package-scan component-scan="example.com/app"/></beans>`), 0o600))

	c, err := stereo.New(lenient, stereo.WithCatalog(newCatalog(t, entries)))
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", c.Root())
	assert.NotNil(t, c.GetBean("svcImpl"))

	strict := filepath.Join(dir, "strict.yaml")
	require.NoError(t, os.WriteFile(strict, []byte("component-scan: example.com/app\nstrict: true\n"), 0o600))

	_, err = stereo.New(strict, stereo.WithCatalog(newCatalog(t, entries)))
	assert.ErrorIs(t, err, stereo.ErrUnresolved)

	c, err = stereo.New(strict, stereo.WithCatalog(newCatalog(t, entries)), stereo.WithStrict(false))
	require.NoError(t, err, "explicit options win over the descriptor")
	assert.Len(t, c.Diagnostics().Resolution, 1)

	_, err = stereo.New(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	previous := stereo.DefaultCatalog()
	t.Cleanup(func() { stereo.SetDefaultCatalog(previous) })

	stereo.SetDefaultCatalog(nil)
	stereo.Register[RepoImpl](stereo.Implements[Repo]())
	stereo.Register[SvcImpl]()

	assert.Panics(t, func() { stereo.Register[RepoImpl]() }, "duplicate registration")

	c, err := stereo.NewWithRoot(typeOf[RepoImpl]().PkgPath())
	require.NoError(t, err)
	assert.Same(t, c.GetBean("repoImpl"), stereo.MustBean[*SvcImpl](c, "svcImpl").repo)
}
