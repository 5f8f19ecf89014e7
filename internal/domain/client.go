package domain

import (
	"strings"
	"time"
)

type Client struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Company       string       `json:"company,omitempty"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Address       string       `json:"address,omitempty"`
	ContactPerson string       `json:"contactPerson,omitempty"`
	Status        ClientStatus `json:"status"`
	// ProjectCount and TotalSpent are never stored; see RollupClient.
	ProjectCount int     `json:"projectCount"`
	TotalSpent   float64 `json:"totalSpent"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

func (c *Client) EntityID() string      { return c.ID }
func (c *Client) SetEntityID(id string) { c.ID = id }

func (c *Client) Stamp(now time.Time, creating bool) {
	if creating && c.CreatedAt == "" {
		c.CreatedAt = now.Format(DateLayout)
	}
}

func (c *Client) Normalize() error {
	if err := firstErr(
		required("name", c.Name),
		required("email", c.Email),
		checkStatus(&c.Status, ClientActive, ClientActive, ClientInactive),
	); err != nil {
		return err
	}
	if !strings.Contains(c.Email, "@") {
		return Invalid("email", "%q is not an email address", c.Email)
	}
	c.ProjectCount = 0
	c.TotalSpent = 0
	return nil
}

// RollupClient fills the client's project counters from the project set.
// TotalSpent sums the contract value (budget.total) of the client's projects.
func RollupClient(c *Client, projects []Project) {
	c.ProjectCount = 0
	c.TotalSpent = 0
	for _, p := range projects {
		if p.Client.ID != c.ID {
			continue
		}
		c.ProjectCount++
		c.TotalSpent += p.Budget.Total
	}
}

type ClientPatch struct {
	Name          *string
	Company       *string
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string
	Status        *ClientStatus
}

func (cp ClientPatch) Apply(c *Client) {
	assign(&c.Name, cp.Name)
	assign(&c.Company, cp.Company)
	assign(&c.Email, cp.Email)
	assign(&c.Phone, cp.Phone)
	assign(&c.Address, cp.Address)
	assign(&c.ContactPerson, cp.ContactPerson)
	assign(&c.Status, cp.Status)
}
