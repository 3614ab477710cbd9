package rendering

import (
	"embed"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-optimizer/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Embedded templates
const (
	LaTeXTemplate    = "templates/jake.tex.tmpl"
	MarkdownTemplate = "templates/resume.md.tmpl"
)

// Templates use << >> so LaTeX braces never collide with actions
const (
	leftDelim  = "<<"
	rightDelim = ">>"
)

// TemplateData is the data passed to a resume template. All text fields are
// already escaped for the target format.
type TemplateData struct {
	Name      string
	Contact   []string
	Summary   string
	Skills    []SkillLine
	Companies []CompanySection
	Projects  []ProjectSection
	Education []EducationSection
}

// SkillLine is one labelled row of the skills section
type SkillLine struct {
	Category string
	Items    []string
}

// CompanySection represents a company with one or more roles
type CompanySection struct {
	Company string
	Roles   []RoleSection
}

// RoleSection represents a role within a company with merged date ranges
type RoleSection struct {
	Role     string
	Location string
	Dates    string // e.g. "Aug 2020 -- Oct 2021, Jul 2023 -- Present"
	Bullets  []string
}

// ProjectSection is one project entry
type ProjectSection struct {
	Name         string
	Technologies []string
	Bullets      []string
}

// EducationSection is one degree entry
type EducationSection struct {
	Institution string
	Degree      string
	Location    string
	Dates       string
}

// RenderLaTeX renders the portfolio with the embedded single-column template.
// experiences replace the portfolio's own experiences when non-nil, so the
// optimized set can be rendered with the original contact and education data.
func RenderLaTeX(portfolio *types.Portfolio, experiences []types.Experience) (string, error) {
	tmpl, err := parseEmbedded(LaTeXTemplate)
	if err != nil {
		return "", err
	}
	return render(tmpl, portfolio, experiences, EscapeLaTeX)
}

// RenderLaTeXWithTemplate renders with a template file from disk. The file
// uses the same << >> delimiters and TemplateData fields as the embedded one.
func RenderLaTeXWithTemplate(templatePath string, portfolio *types.Portfolio, experiences []types.Experience) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return render(tmpl, portfolio, experiences, EscapeLaTeX)
}

// RenderMarkdown renders the portfolio as Markdown
func RenderMarkdown(portfolio *types.Portfolio, experiences []types.Experience) (string, error) {
	tmpl, err := parseEmbedded(MarkdownTemplate)
	if err != nil {
		return "", err
	}
	return render(tmpl, portfolio, experiences, strings.TrimSpace)
}

func render(tmpl *template.Template, portfolio *types.Portfolio, experiences []types.Experience, escape func(string) string) (string, error) {
	if portfolio == nil {
		return "", &RenderError{Message: "portfolio is required"}
	}
	if experiences == nil {
		experiences = portfolio.Experiences
	}

	data := buildTemplateData(portfolio, experiences, escape)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{Template: tmpl.Name(), Message: "execution failed", Cause: err}
	}
	return result.String(), nil
}

func newTemplate(name string) *template.Template {
	return template.New(name).Delims(leftDelim, rightDelim).Funcs(template.FuncMap{
		"join": strings.Join,
	})
}

func parseEmbedded(name string) (*template.Template, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "embedded template not found", Cause: err}
	}
	tmpl, err := newTemplate(name).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "parse failed", Cause: err}
	}
	return tmpl, nil
}

// parseTemplate reads and parses a template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Template: templatePath, Message: "file not found", Cause: err}
		}
		return nil, &TemplateError{Template: templatePath, Message: "failed to read file", Cause: err}
	}

	tmpl, err := newTemplate(templatePath).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: templatePath, Message: "parse failed", Cause: err}
	}
	return tmpl, nil
}

func buildTemplateData(p *types.Portfolio, experiences []types.Experience, escape func(string) string) *TemplateData {
	data := &TemplateData{
		Name:      escape(p.Name),
		Summary:   escape(p.Summary),
		Companies: groupByCompanyAndRole(experiences, escape),
	}

	for _, c := range []string{p.Phone, p.Email, p.Location, p.LinkedIn, p.GitHub} {
		if c = strings.TrimSpace(c); c != "" {
			data.Contact = append(data.Contact, escape(c))
		}
	}
	for _, g := range p.Skills {
		if len(g.Items) == 0 {
			continue
		}
		data.Skills = append(data.Skills, SkillLine{Category: escape(g.Category), Items: escapeAll(g.Items, escape)})
	}
	for _, pr := range p.Projects {
		data.Projects = append(data.Projects, ProjectSection{
			Name:         escape(pr.Name),
			Technologies: escapeAll(pr.Technologies, escape),
			Bullets:      escapeAll(pr.Bullets, escape),
		})
	}
	for _, e := range p.Education {
		data.Education = append(data.Education, EducationSection{
			Institution: escape(e.Institution),
			Degree:      escape(e.Degree),
			Location:    escape(e.Location),
			Dates:       escape(joinRange(e.StartDate, e.EndDate)),
		})
	}
	return data
}

func escapeAll(in []string, escape func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, escape(s))
	}
	return out
}

// roleKey is used for grouping bullets by company and role
type roleKey struct {
	Company string
	Role    string
}

// groupByCompanyAndRole groups experiences by company, then by role, in the
// order companies first appear. Repeated stints in the same role merge their
// bullets and date ranges.
func groupByCompanyAndRole(experiences []types.Experience, escape func(string) string) []CompanySection {
	var companyOrder []string
	roleOrder := make(map[string][]string)
	ranges := make(map[roleKey][]string)
	bullets := make(map[roleKey][]string)
	locations := make(map[roleKey]string)

	for _, exp := range experiences {
		key := roleKey{Company: exp.Company, Role: exp.Role}
		if _, seen := roleOrder[exp.Company]; !seen {
			companyOrder = append(companyOrder, exp.Company)
		}
		if _, seen := ranges[key]; !seen {
			roleOrder[exp.Company] = append(roleOrder[exp.Company], exp.Role)
			ranges[key] = []string{}
		}
		if dates := formatDates(exp); dates != "" && !contains(ranges[key], dates) {
			ranges[key] = append(ranges[key], dates)
		}
		if locations[key] == "" {
			locations[key] = exp.Location
		}
		for _, b := range exp.Bullets {
			bullets[key] = append(bullets[key], escape(b.Text))
		}
	}

	companies := make([]CompanySection, 0, len(companyOrder))
	for _, company := range companyOrder {
		section := CompanySection{Company: escape(company)}
		for _, role := range roleOrder[company] {
			key := roleKey{Company: company, Role: role}
			section.Roles = append(section.Roles, RoleSection{
				Role:     escape(role),
				Location: escape(locations[key]),
				Dates:    escape(strings.Join(ranges[key], ", ")),
				Bullets:  bullets[key],
			})
		}
		companies = append(companies, section)
	}
	return companies
}

// formatDates renders "Jan 2020 -- Present" from the parsed dates, falling
// back to the raw strings when the entry was never parsed.
func formatDates(exp types.Experience) string {
	if !exp.Start.IsZero() {
		end := "Present"
		if exp.End != nil {
			end = exp.End.Format("Jan 2006")
		}
		return exp.Start.Format("Jan 2006") + " -- " + end
	}
	end := exp.EndDate
	if exp.StartDate != "" && end == "" {
		end = "Present"
	}
	return joinRange(exp.StartDate, end)
}

func joinRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " -- " + end
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
