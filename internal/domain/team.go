package domain

type TeamMember struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Role       string       `json:"role"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone,omitempty"`
	HourlyRate float64      `json:"hourlyRate"`
	Department string       `json:"department"`
	JoinDate   string       `json:"joinDate,omitempty"`
	Projects   []string     `json:"projects"`
	Status     MemberStatus `json:"status"`
}

func (m *TeamMember) EntityID() string      { return m.ID }
func (m *TeamMember) SetEntityID(id string) { m.ID = id }

func (m *TeamMember) Normalize() error {
	if m.Projects == nil {
		m.Projects = []string{}
	}
	return firstErr(
		required("name", m.Name),
		nonNegative("hourlyRate", m.HourlyRate),
		optionalDate("joinDate", m.JoinDate),
		checkStatus(&m.Status, MemberActive, MemberActive, MemberInactive),
	)
}

type TeamMemberPatch struct {
	Name       *string
	Role       *string
	Email      *string
	Phone      *string
	HourlyRate *float64
	Department *string
	Projects   *[]string
	Status     *MemberStatus
}

func (tp TeamMemberPatch) Apply(m *TeamMember) {
	assign(&m.Name, tp.Name)
	assign(&m.Role, tp.Role)
	assign(&m.Email, tp.Email)
	assign(&m.Phone, tp.Phone)
	assign(&m.HourlyRate, tp.HourlyRate)
	assign(&m.Department, tp.Department)
	assign(&m.Projects, tp.Projects)
	assign(&m.Status, tp.Status)
}
