package logger

import "sync"

// components maps a component name to the logger the application bound to
// it. Packages that default to Get(name) pick up that binding.
var components sync.Map

// Register binds l to a component name. A nil l removes the binding.
func Register(name string, l *Logger) {
	if l == nil {
		components.Delete(name)
		return
	}
	components.Store(name, l)
}

// Get returns the logger bound to name. Without a binding it returns the
// global logger tagged with the component name.
func Get(name string) *Logger {
	if l, ok := components.Load(name); ok {
		return l.(*Logger)
	}
	return WithComponent(name)
}
