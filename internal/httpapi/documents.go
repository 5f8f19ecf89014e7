package httpapi

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// The generated files are placeholders: PDFs are plain text and
// spreadsheets are CSV. Clients only rely on the headers.

type field struct {
	label string
	value string
}

func money(v float64) string { return "$" + strconv.FormatFloat(v, 'f', 2, 64) }

func renderText(title string, fields []field) []byte {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return []byte(b.String())
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func attach(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, body)
}

// export loads one record by the :id param and writes the rendered file.
// Missing records answer 404 with "<Thing> not found".
func export[T any](s *Server, c *gin.Context, thing string, load func(context.Context, string) (T, error), write func(T) error) {
	v, err := load(c.Request.Context(), c.Param("id"))
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": thing + " not found"})
			return
		}
		s.fail(c, err)
		return
	}
	if err := write(v); err != nil {
		s.logger.Error("export_failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate " + thing + " document"})
	}
}

var reportHeader = []string{"ID", "Title", "Description", "Category", "Created", "Updated", "Author", "Status"}

func reportRow(r domain.Report) []string {
	return []string{r.ID, r.Title, r.Description, r.Category, r.CreatedAt, r.UpdatedAt, r.Author, string(r.Status)}
}

func reportFields(r domain.Report) []field {
	return []field{
		{"Report ID", r.ID},
		{"Title", r.Title},
		{"Description", r.Description},
		{"Category", r.Category},
		{"Created", r.CreatedAt},
		{"Updated", r.UpdatedAt},
		{"Author", r.Author},
		{"Status", string(r.Status)},
	}
}

func (s *Server) reportPDF(c *gin.Context) {
	export(s, c, "Report", getter(s.q.Client, s.q.Reports), func(r domain.Report) error {
		attach(c, contentTypePDF, "report-"+r.ID+".pdf", renderText("Report "+r.ID, reportFields(r)))
		return nil
	})
}

func (s *Server) reportExcel(c *gin.Context) {
	export(s, c, "Report", getter(s.q.Client, s.q.Reports), func(r domain.Report) error {
		body, err := renderCSV(reportHeader, [][]string{reportRow(r)})
		if err != nil {
			return err
		}
		attach(c, contentTypeXLSX, "report-"+r.ID+".xlsx", body)
		return nil
	})
}

func (s *Server) allReports(c *gin.Context) ([]domain.Report, bool) {
	ctx := c.Request.Context()
	reports, err := retrying(ctx, s.q.Client, s.q.Reports.ListKey(domain.Filter{}), func() ([]domain.Report, error) {
		return s.q.Reports.List(ctx, domain.Filter{})
	})
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return reports, true
}

func (s *Server) allReportsPDF(c *gin.Context) {
	reports, ok := s.allReports(c)
	if !ok {
		return
	}
	var b bytes.Buffer
	b.WriteString("All Reports\n")
	for _, r := range reports {
		b.WriteString("\n")
		for _, f := range reportFields(r) {
			fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
		}
	}
	attach(c, contentTypePDF, "all-reports.pdf", b.Bytes())
}

func (s *Server) allReportsExcel(c *gin.Context) {
	reports, ok := s.allReports(c)
	if !ok {
		return
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, reportRow(r))
	}
	body, err := renderCSV(reportHeader, rows)
	if err != nil {
		s.logger.Error("export_failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate Excel file"})
		return
	}
	attach(c, contentTypeXLSX, "all-reports.xlsx", body)
}

func (s *Server) proposalPDF(c *gin.Context) {
	export(s, c, "Proposal", getter(s.q.Client, s.q.Proposals), func(p domain.Proposal) error {
		attach(c, contentTypePDF, "proposal-"+p.ID+".pdf", renderText("Proposal "+p.ID, []field{
			{"Name", p.Name},
			{"Client", p.Client},
			{"Project", p.ProjectID},
			{"Status", string(p.Status)},
			{"Amount", money(p.Amount)},
			{"Date", p.Date},
			{"Expires", p.ExpiryDate},
		}))
		return nil
	})
}

var estimateHeader = []string{"Item", "Description", "Quantity", "Unit", "Unit Price", "Total"}

func (s *Server) estimatePDF(c *gin.Context) {
	export(s, c, "Estimate", getter(s.q.Client, s.q.Estimates), func(e domain.Estimate) error {
		fields := []field{
			{"Name", e.Name},
			{"Client", e.Client},
			{"Project", e.ProjectID},
			{"Status", string(e.Status)},
			{"Date", e.Date},
			{"Valid Until", e.ValidUntil},
		}
		for _, it := range e.Items {
			fields = append(fields, field{it.ID, fmt.Sprintf("%s, %g %s x %s = %s",
				it.Description, it.Quantity, it.Unit, money(it.UnitPrice), money(it.TotalPrice))})
		}
		fields = append(fields, field{"Total", money(e.Amount)})
		attach(c, contentTypePDF, "estimate-"+e.ID+".pdf", renderText("Estimate "+e.ID, fields))
		return nil
	})
}

func (s *Server) estimateExcel(c *gin.Context) {
	export(s, c, "Estimate", getter(s.q.Client, s.q.Estimates), func(e domain.Estimate) error {
		rows := make([][]string, 0, len(e.Items)+1)
		for _, it := range e.Items {
			rows = append(rows, []string{
				it.ID, it.Description,
				strconv.FormatFloat(it.Quantity, 'f', -1, 64), it.Unit,
				strconv.FormatFloat(it.UnitPrice, 'f', 2, 64),
				strconv.FormatFloat(it.TotalPrice, 'f', 2, 64),
			})
		}
		rows = append(rows, []string{"", "Total", "", "", "", strconv.FormatFloat(e.Amount, 'f', 2, 64)})
		body, err := renderCSV(estimateHeader, rows)
		if err != nil {
			return err
		}
		attach(c, contentTypeXLSX, "estimate-"+e.ID+".xlsx", body)
		return nil
	})
}

func (s *Server) payrollPDF(c *gin.Context) {
	export(s, c, "Payroll", getter(s.q.Client, s.q.Payrolls), func(p domain.Payroll) error {
		attach(c, contentTypePDF, "payroll-"+p.ID+".pdf", renderText("Payroll "+p.ID, []field{
			{"Period", p.Period.Start + " to " + p.Period.End},
			{"Status", string(p.Status)},
			{"Employees", strconv.Itoa(p.EmployeeCount)},
			{"Total", money(p.TotalAmount)},
			{"Processed", p.ProcessedAt},
		}))
		return nil
	})
}

func (s *Server) purchaseOrderPDF(c *gin.Context) {
	export(s, c, "Purchase order", getter(s.q.Client, s.q.PurchaseOrders), func(po domain.PurchaseOrder) error {
		fields := []field{
			{"Vendor", po.Vendor},
			{"Project", domain.CoalesceStr(po.Project, po.ProjectID)},
			{"Status", string(po.Status)},
			{"Delivery", po.DeliveryDate},
			{"Payment Terms", po.PaymentTerms},
		}
		for i, it := range po.Items {
			fields = append(fields, field{fmt.Sprintf("Item %d", i+1), fmt.Sprintf("%s, %g %s x %s = %s",
				it.Description, it.Quantity, it.Unit, money(it.UnitPrice), money(it.Total))})
		}
		fields = append(fields,
			field{"Subtotal", money(po.Subtotal)},
			field{"Tax", money(po.Tax)},
			field{"Total", money(po.Total)},
		)
		attach(c, contentTypePDF, "purchase-order-"+po.ID+".pdf", renderText("Purchase Order "+po.ID, fields))
		return nil
	})
}

func (s *Server) expensePDF(c *gin.Context) {
	export(s, c, "Expense", getter(s.q.Client, s.q.Expenses), func(e domain.Expense) error {
		attach(c, contentTypePDF, "expense-"+e.ID+".pdf", renderText("Expense "+e.ID, []field{
			{"Description", e.Description},
			{"Category", e.Category},
			{"Project", domain.CoalesceStr(e.Project, e.ProjectID)},
			{"Amount", money(e.Amount)},
			{"Date", e.Date},
			{"Status", string(e.Status)},
			{"Submitted By", domain.CoalesceStr(e.SubmittedByName, e.SubmittedBy)},
			{"Notes", e.Notes},
		}))
		return nil
	})
}
