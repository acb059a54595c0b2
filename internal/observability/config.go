package observability

// Config captures opt-in observability toggles that wire into the debug
// server.
type Config struct {
	EnablePprof bool
}
