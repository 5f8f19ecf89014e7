package domain

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

var validProjectStatuses = []ProjectStatus{
	ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled,
}

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

type EstimateStatus string

const (
	EstimateDraft    EstimateStatus = "Draft"
	EstimateSent     EstimateStatus = "Sent"
	EstimatePending  EstimateStatus = "Pending"
	EstimateApproved EstimateStatus = "Approved"
	EstimateRejected EstimateStatus = "Rejected"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoicePending InvoiceStatus = "Pending"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "Pending"
	ExpenseApproved ExpenseStatus = "Approved"
	ExpenseRejected ExpenseStatus = "Rejected"
)

type PayrollStatus string

const (
	PayrollDraft      PayrollStatus = "Draft"
	PayrollProcessing PayrollStatus = "Processing"
	PayrollPaid       PayrollStatus = "Paid"
)

type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "Draft"
	ProposalSent     ProposalStatus = "Sent"
	ProposalAccepted ProposalStatus = "Accepted"
	ProposalRejected ProposalStatus = "Rejected"
)

type PurchaseOrderStatus string

const (
	POPending   PurchaseOrderStatus = "Pending"
	POApproved  PurchaseOrderStatus = "Approved"
	PODelivered PurchaseOrderStatus = "Delivered"
	POCancelled PurchaseOrderStatus = "Cancelled"
)

type ReportStatus string

const (
	ReportDraft     ReportStatus = "Draft"
	ReportPublished ReportStatus = "Published"
)

type EventStatus string

const (
	EventScheduled EventStatus = "Scheduled"
	EventCompleted EventStatus = "Completed"
	EventCancelled EventStatus = "Cancelled"
)

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

// checkStatus fills an empty status with def and rejects values outside allowed.
func checkStatus[S ~string](s *S, def S, allowed ...S) error {
	if *s == "" {
		*s = def
		return nil
	}
	for _, a := range allowed {
		if *s == a {
			return nil
		}
	}
	return Invalid("status", "%q is not one of %v", string(*s), allowed)
}
