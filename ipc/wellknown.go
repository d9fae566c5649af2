package ipc

// Well-known names exposed by every dicey server.
const (
	// ServerPath is the object the server itself lives at.
	ServerPath = "/dicey"

	// IntrospectionTrait is implemented by every object; its properties
	// describe the object's traits.
	IntrospectionTrait    = "dicey.Introspection"
	IntrospectionDataProp = "Data"
	IntrospectionXMLProp  = "XML"

	// EventManagerTrait lives on the server object and manages signal
	// subscriptions.
	EventManagerTrait         = "dicey.EventManager"
	EventManagerSubscribeOp   = "Subscribe"
	EventManagerUnsubscribeOp = "Unsubscribe"
)
