package domain

type Proposal struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"projectId"`
	Name       string         `json:"name"`
	Client     string         `json:"client"`
	Status     ProposalStatus `json:"status"`
	Amount     float64        `json:"amount"`
	Date       string         `json:"date,omitempty"`
	ExpiryDate string         `json:"expiryDate,omitempty"`
}

func (p *Proposal) EntityID() string      { return p.ID }
func (p *Proposal) SetEntityID(id string) { p.ID = id }

func (p *Proposal) Normalize() error {
	return firstErr(
		required("name", p.Name),
		nonNegative("amount", p.Amount),
		optionalDate("date", p.Date),
		optionalDate("expiryDate", p.ExpiryDate),
		checkStatus(&p.Status, ProposalDraft, ProposalDraft, ProposalSent, ProposalAccepted, ProposalRejected),
	)
}

type ProposalPatch struct {
	Name       *string
	Client     *string
	Status     *ProposalStatus
	Amount     *float64
	Date       *string
	ExpiryDate *string
}

func (pp ProposalPatch) Apply(p *Proposal) {
	assign(&p.Name, pp.Name)
	assign(&p.Client, pp.Client)
	assign(&p.Status, pp.Status)
	assign(&p.Amount, pp.Amount)
	assign(&p.Date, pp.Date)
	assign(&p.ExpiryDate, pp.ExpiryDate)
}
