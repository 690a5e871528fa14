package lang

// Env implements a lexical environment chain. Closures hold *Env pointers, so
// an environment lives as long as any closure or active scope refers to it and
// writes through one holder are seen by all of them.
type Env struct {
	parent *Env
	values map[string]Value
}

// NewEnv creates an environment with optional parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name to value in current frame, replacing any previous binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Get retrieves a binding, searching parents if necessary.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Assign updates an existing binding, searching parents if needed. It
// reports false when name is not bound anywhere in the chain.
func (e *Env) Assign(name string, val Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return true
		}
	}
	return false
}

// Ancestor returns the environment distance hops up the chain.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the environment distance hops up the chain without
// searching further.
func (e *Env) GetAt(distance int, name string) (Value, bool) {
	env := e.Ancestor(distance)
	if env == nil {
		return Value{}, false
	}
	val, ok := env.values[name]
	return val, ok
}

// AssignAt writes name in the environment distance hops up the chain.
func (e *Env) AssignAt(distance int, name string, val Value) bool {
	env := e.Ancestor(distance)
	if env == nil {
		return false
	}
	env.values[name] = val
	return true
}

// Parent returns the parent environment.
func (e *Env) Parent() *Env {
	return e.parent
}
