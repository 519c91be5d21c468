package reports

const (
	AllDepartments = "All"
	SystemName     = "Leave Management System"
)

type DepartmentSummary struct {
	Department        string `json:"department"`
	TotalEmployees    int    `json:"totalEmployees"`
	TotalLeaveBalance int    `json:"totalLeaveBalance"`
	PendingRequests   int    `json:"pendingRequests"`
	ApprovedRequests  int    `json:"approvedRequests"`
	RejectedRequests  int    `json:"rejectedRequests"`
	TotalRequests     int    `json:"totalRequests"`
}

type SystemStats struct {
	TotalEmployees     int      `json:"totalEmployees"`
	TotalLeaveRequests int      `json:"totalLeaveRequests"`
	PendingRequests    int      `json:"pendingRequests"`
	ApprovedRequests   int      `json:"approvedRequests"`
	RejectedRequests   int      `json:"rejectedRequests"`
	TotalPolicies      int      `json:"totalPolicies"`
	Departments        []string `json:"departments"`
	ServerTime         string   `json:"serverTime"`
}

type SystemInfo struct {
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Features []string    `json:"features"`
	Stats    SystemStats `json:"stats"`
}

var features = []string{
	"Employee Management",
	"Leave Request Processing",
	"Policy Search and Q&A",
	"Department Analytics",
	"Audit Trail",
}

type QuickStart struct {
	Title                 string   `json:"title"`
	Steps                 []string `json:"steps"`
	ExamplePolicyQuestion string   `json:"examplePolicyQuestion"`
	ExampleSearch         string   `json:"exampleSearch"`
}

var quickStartSteps = []string{
	"1. Register employees with registerEmployee",
	"2. Add policy documents with addPolicyDocument",
	"3. Submit leave requests with submitLeaveRequest",
	"4. Ask policy questions with askPolicyQuestion",
	"5. Approve or reject requests with approveLeaveRequest or rejectLeaveRequest",
	"6. Check balances with checkBalance",
}
