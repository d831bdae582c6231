package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Player errors
	ErrPlayerNotFound   = fmt.Errorf("player binary not found")
	ErrPlayerNotRunning = fmt.Errorf("player not running")
	ErrIPCClosed        = fmt.Errorf("player IPC connection closed")
	ErrIPCTimeout       = fmt.Errorf("player IPC request timed out")

	// Discovery errors
	ErrDiscoverySpawn = fmt.Errorf("discovery tool could not be started")
	ErrDiscoveryTool  = fmt.Errorf("discovery tool reported an error")
	ErrNoCandidates   = fmt.Errorf("no related tracks found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
