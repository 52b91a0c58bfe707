package exception

import "errors"

var (
	ErrEngineUnknownOrder      = errors.New("engine: order not found")
	ErrEngineDuplicateOrder    = errors.New("engine: order already exists")
	ErrEngineUnknownInstrument = errors.New("engine: instrument not found")
	ErrEngineUnknownPosition   = errors.New("engine: position not found")
	ErrEngineQueueFull         = errors.New("engine: queue full")
	ErrEngineStopped           = errors.New("engine: stopped")
)
