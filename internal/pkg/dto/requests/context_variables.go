package requests

// ContextVariables is an extensible key/value bag carried on outbound
// requests. Keys are unique; insertion order is irrelevant.
type ContextVariables map[string]interface{}

func (c ContextVariables) Put(name string, val interface{}) ContextVariables {
	c[name] = val
	return c
}

func (c ContextVariables) Get(name string) (interface{}, bool) {
	v, ok := c[name]
	return v, ok
}

func (c ContextVariables) GetString(name string) string {
	if v, ok := c[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (c ContextVariables) Remove(name string) ContextVariables {
	delete(c, name)
	return c
}
