// Package hollowmere is the core of a multi-user interactive text-world
// engine: a persistent, event-driven simulation of entities occupying a
// shared world, mutated by parsed player commands and extended through a
// plugin architecture.
//
// The package is organized around four subsystems: the entity/scope data
// model (entity.go, scope.go, the scope_*.go files), the session
// unit-of-work (session.go, threadlocal.go), the perform pipeline
// (perform.go, middleware.go, finder.go), and the plugin/hook
// composition (plugin.go, hooks_domain.go, and the hooks package).
// Storage, identifiers, logging, and configuration live in their own
// packages so a host application can swap backends without touching
// the kernel.
//
// # Quick start
//
//	store, _ := filestore.New("./world")
//	world, _ := hollowmere.NewDomain(ctx, store, hollowmere.WithPlugins(core.New()))
//	session, _ := world.OpenSession(ctx)
//	defer session.Close(ctx)
//	effect, _, _ := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actorKey), "look")
package hollowmere
