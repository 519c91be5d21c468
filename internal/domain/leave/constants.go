package leave

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type LeaveType string

const (
	TypeAnnual    LeaveType = "Annual"
	TypeSick      LeaveType = "Sick"
	TypeEmergency LeaveType = "Emergency"
	TypeUnpaid    LeaveType = "Unpaid"
)

const (
	DefaultBalance   = 20
	DefaultApprover  = "MANAGER"
	RequestIDPrefix  = "REQ"
	DateLayout       = "2006-01-02"
	TimestampLayout  = "2006-01-02 15:04:05"
	defaultLeaveType = TypeAnnual
)

var leaveTypes = []LeaveType{TypeAnnual, TypeSick, TypeEmergency, TypeUnpaid}

var statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// LeaveTypes lists the accepted leave types in display order.
func LeaveTypes() []LeaveType {
	out := make([]LeaveType, len(leaveTypes))
	copy(out, leaveTypes)
	return out
}
