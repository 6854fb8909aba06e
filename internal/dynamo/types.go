package dynamo

// Configurable is implemented by anything the front-ends can tune at runtime.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
