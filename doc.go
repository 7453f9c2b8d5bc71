// Package stereo provides an annotation-style dependency injection container
// for Go applications.
//
// # Overview
//
// A container is pointed at a root namespace (a Go import path). It discovers
// every managed type filed under that namespace at any depth, creates exactly
// one instance of each, and populates their autowired fields from the other
// instances. Lookups go by name.
//
//   - Stereotype markers (Repository, Service, Controller, Component) make a
//     struct managed
//   - Aliases come from the marker's name tag, or the lower-camel type name
//   - Autowired fields are resolved by name or by the field type
//   - Instances may reference each other in cycles
//   - Lenient by default; strict mode reports every wiring problem at once
//
// # Declaring Beans
//
// Embed a stereotype marker and tag the fields to inject:
//
//	type BookDaoImpl struct {
//	    stereo.Repository `name:"bookDao"`
//	}
//
//	type BookServiceImpl struct {
//	    stereo.Service `name:"bookService"`
//
//	    bookDao dao.BookDao `autowired:""`          // by type
//	    audit   *AuditLog   `autowired:"auditLog"`  // by name
//	}
//
// Unexported fields are injected too.
//
// # Registering Types
//
// Go cannot list the types of a package at run time, so each package files
// its types in a Catalog, usually the default one, from init:
//
//	func init() {
//	    stereo.Register[BookDaoImpl](stereo.Implements[BookDao]())
//	}
//
// Implements declares a contract. The instance is then also stored under the
// contract's fully-qualified name, which is what a by-type autowired field of
// that interface type looks up.
//
// # Building a Container
//
// From a descriptor:
//
//	c, err := stereo.New("applicationContext.xml")
//
// where applicationContext.xml reads
//
//	<beans>
//	    <package-scan component-scan="example.com/app"/>
//	</beans>
//
// or directly from a root namespace:
//
//	c, err := stereo.NewWithRoot("example.com/app",
//	    stereo.WithLogger(logger),
//	    stereo.WithStrict(true),
//	)
//
// # Aliases and Keys
//
// A type carrying several markers takes the first non-empty name in the
// order Repository, Service, Controller, Component. Alias keys are first write
// wins: a later type with the same alias is dropped and recorded in
// Diagnostics. Contract keys are last write wins.
//
// # Lookups
//
//	svc := c.GetBean("bookService")
//	svc, err := stereo.Bean[*BookServiceImpl](c, "bookService")
//	dao, err := stereo.Contract[BookDao](c)
//
// # Failure Handling
//
// In lenient mode, a namespace that cannot be listed, a type that cannot be
// loaded or constructed, and a field whose dependency is missing are skipped
// and recorded in Diagnostics; the field keeps its zero value. With
// WithStrict(true) the same failures are returned together as a *WiringError.
//
// # Lifecycle Hooks
//
// A managed type may implement Constructor, called right after allocation, and
// Initializer, called once every bean has been wired.
//
// # Web Handlers
//
// Package mvc routes HTTP requests to Controller beans; package
// mvc/echomvc serves them from Echo. Package digbridge hands beans to a
// go.uber.org/dig container.
package stereo
