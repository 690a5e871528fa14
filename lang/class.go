package lang

// Class is a runtime class object. Calling it constructs an instance.
type Class struct {
	Name       string
	Superclass *Class // may be nil
	methods    map[string]*Function
}

// NewClass creates a class with the given methods.
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{
		Name:       name,
		Superclass: superclass,
		methods:    methods,
	}
}

// FindMethod looks name up on c and then on its ancestors.
func (c *Class) FindMethod(name string) *Function {
	for cls := c; cls != nil; cls = cls.Superclass {
		if m, ok := cls.methods[name]; ok {
			return m
		}
	}
	return nil
}

// Arity is the arity of init, or 0 when the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates an instance and runs init on it, if present.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return Value{}, err
		}
	}
	return InstanceValue(inst), nil
}

func (c *Class) String() string {
	return c.Name
}

// Instance is an object created by calling a class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance creates an instance of class with no fields.
func NewInstance(class *Class) *Instance {
	return &Instance{
		class:  class,
		fields: make(map[string]Value),
	}
}

// Class returns the class the instance was created from.
func (inst *Instance) Class() *Class {
	return inst.class
}

// Get returns a field, or a method bound to inst. Fields shadow methods.
func (inst *Instance) Get(name string) (Value, bool) {
	if val, ok := inst.fields[name]; ok {
		return val, true
	}
	if method := inst.class.FindMethod(name); method != nil {
		return CallableValue(method.Bind(inst)), true
	}
	return Value{}, false
}

// Set writes a field, creating it if absent.
func (inst *Instance) Set(name string, val Value) {
	inst.fields[name] = val
}

func (inst *Instance) String() string {
	return inst.class.Name + " instance"
}
