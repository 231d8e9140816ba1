package interfaces

// LinkResolver builds canonical public URLs for named routes.
type LinkResolver interface {
	Resolve(route string, params map[string]string) (string, error)
}
