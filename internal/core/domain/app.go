package domain

import "time"

type AppMode string

const (
	AppModeWorkflow   AppMode = "workflow"
	AppModeChat       AppMode = "chat"
	AppModeCompletion AppMode = "completion"
)

type App struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Mode      AppMode   `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// InvokeFrom tags where an app invocation originated.
type InvokeFrom string

const (
	InvokeFromWebApp     InvokeFrom = "web-app"
	InvokeFromServiceAPI InvokeFrom = "service-api"
	InvokeFromDebugger   InvokeFrom = "debugger"
)

type GenerateRequest struct {
	App        *App
	Account    *Account
	Session    *Session
	Args       map[string]any
	InvokeFrom InvokeFrom
	Streaming  bool
}
