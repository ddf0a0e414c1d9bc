package catalog

// TaskAttributes configures a unit of work that agents carry out. Tasks may
// chain: Input names another task whose output feeds this one.
type TaskAttributes struct {
	// Instruction is the natural-language work description. Required.
	Instruction string `json:"instruction"`

	// Tools lists tool names the task may invoke. References are resolved
	// lazily, at run time.
	Tools []string `json:"tools,omitempty"`

	// Input optionally names a predecessor task.
	Input string `json:"input,omitempty"`

	// EnableHumanTool permits the task to escalate to a human.
	EnableHumanTool bool `json:"enable_human_tool,omitempty"`
}

// TaskSchema is the attribute schema table for tasks.
var TaskSchema = MustSchema(KindTask, map[string]FieldSpec{
	"instruction":       {Type: FieldString, Required: true},
	"tools":             {Type: FieldList},
	"input":             {Type: FieldString},
	"enable_human_tool": {Type: FieldBool},
})

// Task is a catalog entity carrying TaskAttributes.
type Task = Entity[TaskAttributes]

// TaskClient manages the lifecycle of tasks.
//
// Tasks have a kind-specific delete rule: a non-force Delete requires the
// task to be DISABLED first. Delete with WithForce removes the task in any
// state.
type TaskClient struct {
	*Client[TaskAttributes]
}

// NewTasks creates a task client bound to the given backend.
func NewTasks(backend Backend, opts ...ClientOption) *TaskClient {
	return &TaskClient{Client: NewClient[TaskAttributes](KindTask, TaskSchema, backend, opts...)}
}
