package hollowmere

// Middleware observes and may transform a Perform before calling next.
// Grounded on the teacher's HookContext-threading pattern (hooks.go): an
// ordered chain of functions each given a mutable value and a next
// continuation, generalized from "hooks observe, don't replace, the
// call" to "middleware observes and can replace the Perform variant
// before calling next" (spec.md §4.6). User-supplied middleware that
// does not recognize a variant must forward it unchanged.
type Middleware func(p Perform, next func(Perform) (Effect, error)) (Effect, error)

// applyMiddleware runs p through chain, then terminal. Each link wraps
// the next, so chain[0] sees the original Perform and chain[len-1]'s
// next is terminal itself.
func applyMiddleware(chain []Middleware, p Perform, terminal func(Perform) (Effect, error)) (Effect, error) {
	next := terminal
	for i := len(chain) - 1; i >= 0; i-- {
		mw := chain[i]
		prevNext := next
		next = func(p Perform) (Effect, error) { return mw(p, prevNext) }
	}
	return next(p)
}

// ExpandSurroundings is the built-in middleware that turns a
// PerformActor into a PerformSurroundings by locating the actor's area
// (spec.md §4.6). Non-PerformActor variants pass through unchanged.
func ExpandSurroundings(session *Session) Middleware {
	return func(p Perform, next func(Perform) (Effect, error)) (Effect, error) {
		actor, ok := p.Variant().(PerformActor)
		if !ok {
			return next(p)
		}
		surroundings, err := session.findSurroundings(actor.Actor)
		if err != nil {
			return Effect{}, err
		}
		return next(NewPerformSurroundings(surroundings, actor.Action))
	}
}
