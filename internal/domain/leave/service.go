package leave

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"leavedesk/internal/domain/core"
	"leavedesk/internal/platform/sentinel"
)

type Options struct {
	DefaultBalance int
	// BalanceChecked lists the leave types validated against and deducted
	// from the ledger. Nil means Annual only.
	BalanceChecked []LeaveType
	// ReservePending counts pending balance-checked days against the
	// available balance at submission time.
	ReservePending bool
	Clock          func() time.Time
}

// Service owns the leave request lifecycle. Mutations hold mu for writing
// and reads spanning both the ledger and the request log hold it for
// reading, so a transition is never observed half-applied.
type Service struct {
	Directory Directory
	Ledger    *Ledger
	Requests  *Store

	mu             sync.RWMutex
	defaultBalance int
	balanceChecked map[LeaveType]bool
	reservePending bool
	now            func() time.Time
}

func NewService(directory Directory, ledger *Ledger, requests *Store, opts Options) *Service {
	checked := opts.BalanceChecked
	if checked == nil {
		checked = []LeaveType{TypeAnnual}
	}
	set := make(map[LeaveType]bool, len(checked))
	for _, lt := range checked {
		set[lt] = true
	}
	balance := opts.DefaultBalance
	if balance <= 0 {
		balance = DefaultBalance
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		Directory:      directory,
		Ledger:         ledger,
		Requests:       requests,
		defaultBalance: balance,
		balanceChecked: set,
		reservePending: opts.ReservePending,
		now:            clock,
	}
}

func (s *Service) IsBalanceChecked(lt LeaveType) bool {
	return s.balanceChecked[lt]
}

type Registration struct {
	Employee       core.Employee `json:"employee"`
	InitialBalance int           `json:"initialLeaveBalance"`
}

// RegisterEmployee adds the employee to the directory and opens their
// ledger entry with the default balance.
func (s *Service) RegisterEmployee(ctx context.Context, emp core.Employee) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp.JoinDate = s.now()
	emp.Status = core.StatusActive
	created, err := s.Directory.Create(ctx, emp)
	if err != nil {
		return Registration{}, err
	}
	s.Ledger.Open(created.ID, s.defaultBalance)
	balance, _ := s.Ledger.Balance(created.ID)
	return Registration{Employee: created, InitialBalance: balance}, nil
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.Directory.Get(ctx, in.EmployeeID)
	if err != nil {
		return Request{}, err
	}
	start, err := ParseDate("start date", in.StartDate)
	if err != nil {
		return Request{}, err
	}
	end, err := ParseDate("end date", in.EndDate)
	if err != nil {
		return Request{}, err
	}
	days, err := CalculateDays(start, end)
	if err != nil {
		return Request{}, fmt.Errorf("end date must not be before start date: %w", sentinel.ErrInvalidInput)
	}
	leaveType, err := ParseLeaveType(in.LeaveType)
	if err != nil {
		return Request{}, err
	}

	if s.IsBalanceChecked(leaveType) {
		available := s.available(emp.ID)
		if days > available {
			return Request{}, &InsufficientBalanceError{EmployeeID: emp.ID, Available: available, Requested: days}
		}
	}

	return s.Requests.Append(Request{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		StartDate:    start,
		EndDate:      end,
		Days:         days,
		Type:         leaveType,
		Reason:       strings.TrimSpace(in.Reason),
		Status:       StatusPending,
		SubmittedAt:  s.now(),
	}), nil
}

// available is the balance a new request is checked against. Caller holds
// mu.
func (s *Service) available(employeeID string) int {
	balance, _ := s.Ledger.Balance(employeeID)
	if s.reservePending {
		balance -= s.Requests.PendingDays(employeeID, s.IsBalanceChecked)
	}
	return balance
}

// Approve resolves a pending request and, for balance-checked types,
// deducts its days from the ledger. This is the only path that lowers a
// balance.
func (s *Service) Approve(_ context.Context, requestID, approverID string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.pending(requestID)
	if err != nil {
		return Request{}, err
	}
	if s.IsBalanceChecked(req.Type) {
		if _, err := s.Ledger.Deduct(req.EmployeeID, req.Days); err != nil {
			return Request{}, err
		}
	}

	approver := resolveActor(approverID)
	at := s.now()
	updated, _ := s.Requests.Update(requestID, func(r *Request) {
		r.Status = StatusApproved
		r.ResolvedBy = approver
		r.ResolvedAt = at
	})
	return updated, nil
}

func (s *Service) Reject(_ context.Context, requestID, reason, approverID string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.pending(requestID); err != nil {
		return Request{}, err
	}

	rejector := resolveActor(approverID)
	at := s.now()
	updated, _ := s.Requests.Update(requestID, func(r *Request) {
		r.Status = StatusRejected
		r.ResolvedBy = rejector
		r.ResolvedAt = at
		r.RejectionReason = strings.TrimSpace(reason)
	})
	return updated, nil
}

func (s *Service) pending(requestID string) (Request, error) {
	req, ok := s.Requests.Get(requestID)
	if !ok {
		return Request{}, fmt.Errorf("request %s: %w", requestID, sentinel.ErrNotFound)
	}
	if req.Status != StatusPending {
		return Request{}, &InvalidStateError{RequestID: requestID, Current: req.Status}
	}
	return req, nil
}

func (s *Service) GetRequest(_ context.Context, requestID string) (Request, error) {
	req, ok := s.Requests.Get(requestID)
	if !ok {
		return Request{}, fmt.Errorf("request %s: %w", requestID, sentinel.ErrNotFound)
	}
	return req, nil
}

func (s *Service) BalanceOf(ctx context.Context, employeeID string) (int, error) {
	if _, err := s.Directory.Get(ctx, employeeID); err != nil {
		return 0, err
	}
	balance, ok := s.Ledger.Balance(employeeID)
	if !ok {
		return 0, fmt.Errorf("ledger entry %s: %w", employeeID, sentinel.ErrNotFound)
	}
	return balance, nil
}

// ListRequests returns matching requests oldest first.
func (s *Service) ListRequests(_ context.Context, filter RequestFilter) []Request {
	return s.Requests.List(filter)
}

// Snapshot reads the balances of employeeIDs together with every request
// in the log. Unknown employees are left out of the map.
func (s *Service) Snapshot(_ context.Context, employeeIDs []string) (map[string]int, []Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balances := make(map[string]int, len(employeeIDs))
	for _, id := range employeeIDs {
		if balance, ok := s.Ledger.Balance(id); ok {
			balances[id] = balance
		}
	}
	return balances, s.Requests.List(RequestFilter{})
}

func (s *Service) CheckBalance(ctx context.Context, employeeID string) (BalanceSummary, error) {
	emp, err := s.Directory.Get(ctx, employeeID)
	if err != nil {
		return BalanceSummary{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance, _ := s.Ledger.Balance(employeeID)
	pendingDays := s.Requests.PendingDays(employeeID, s.IsBalanceChecked)
	counts := s.Requests.Counts(employeeID)

	used := 0
	for _, req := range s.Requests.List(RequestFilter{EmployeeID: employeeID, Status: StatusApproved}) {
		if s.IsBalanceChecked(req.Type) {
			used += req.Days
		}
	}

	available := balance
	if s.reservePending {
		available -= pendingDays
	}
	return BalanceSummary{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.Name,
		Balance:          balance,
		PendingDays:      pendingDays,
		Available:        available,
		TotalRequests:    counts.Total,
		PendingRequests:  counts.Pending,
		ApprovedRequests: counts.Approved,
		RejectedRequests: counts.Rejected,
		DaysUsed:         used,
	}, nil
}

// AdjustBalance applies an administrative top-up (or a correction when
// days is negative).
func (s *Service) AdjustBalance(ctx context.Context, employeeID string, days int) (Adjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.Directory.Get(ctx, employeeID)
	if err != nil {
		return Adjustment{}, err
	}
	oldBalance, newBalance, err := s.Ledger.Add(employeeID, days)
	if err != nil {
		return Adjustment{}, err
	}
	return Adjustment{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Days:         days,
		OldBalance:   oldBalance,
		NewBalance:   newBalance,
	}, nil
}

func resolveActor(actorID string) string {
	if actor := strings.TrimSpace(actorID); actor != "" {
		return actor
	}
	return DefaultApprover
}
