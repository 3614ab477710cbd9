package experience

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Load is the result of loading a portfolio: the usable portfolio plus every
// entry rejected at the load boundary.
type Load struct {
	Portfolio *types.Portfolio
	Rejected  []types.RejectedEntry
}

// rawPortfolio mirrors the portfolio file. JSON files parse through the same
// YAML decoder.
type rawPortfolio struct {
	Name        string          `yaml:"name"`
	Email       string          `yaml:"email"`
	Phone       string          `yaml:"phone"`
	Location    string          `yaml:"location"`
	LinkedIn    string          `yaml:"linkedin"`
	GitHub      string          `yaml:"github"`
	Summary     string          `yaml:"summary"`
	Skills      skillGroups     `yaml:"skills"`
	Experience  []rawExperience `yaml:"experience"`
	Experiences []rawExperience `yaml:"experiences"`
	Education   []rawEducation  `yaml:"education"`
	Projects    []rawProject    `yaml:"projects"`
}

type rawExperience struct {
	ID           string   `yaml:"id"`
	Company      string   `yaml:"company"`
	Role         string   `yaml:"role"`
	Position     string   `yaml:"position"`
	Location     string   `yaml:"location"`
	StartDate    string   `yaml:"start_date"`
	EndDate      string   `yaml:"end_date"`
	IsCurrent    bool     `yaml:"is_current"`
	Technologies []string `yaml:"technologies"`
	Bullets      []string `yaml:"bullets"`
	Achievements []string `yaml:"achievements"`
}

type rawEducation struct {
	Institution string   `yaml:"institution"`
	Degree      string   `yaml:"degree"`
	Location    string   `yaml:"location"`
	StartDate   string   `yaml:"start_date"`
	EndDate     string   `yaml:"end_date"`
	Details     []string `yaml:"details"`
}

type rawProject struct {
	Name         string   `yaml:"name"`
	Technologies []string `yaml:"technologies"`
	Bullets      []string `yaml:"bullets"`
	Description  []string `yaml:"description"`
}

// entryInput carries the required fields checked at the load boundary
type entryInput struct {
	Company   string   `validate:"required"`
	Role      string   `validate:"required"`
	StartDate string   `validate:"required"`
	Bullets   []string `validate:"min=1,dive,required"`
}

// skillGroups accepts either a mapping of category to items (order preserved)
// or a list of {category, items} objects.
type skillGroups []types.SkillGroup

// UnmarshalYAML implements yaml.Unmarshaler
func (s *skillGroups) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			var items []string
			if err := node.Content[i+1].Decode(&items); err != nil {
				var joined string
				if err2 := node.Content[i+1].Decode(&joined); err2 != nil {
					return fmt.Errorf("skills.%s: %w", node.Content[i].Value, err)
				}
				items = splitList(joined)
			}
			*s = append(*s, types.SkillGroup{Category: node.Content[i].Value, Items: items})
		}
	case yaml.SequenceNode:
		var groups []struct {
			Category string   `yaml:"category"`
			Items    []string `yaml:"items"`
		}
		if err := node.Decode(&groups); err != nil {
			return err
		}
		for _, g := range groups {
			*s = append(*s, types.SkillGroup{Category: g.Category, Items: g.Items})
		}
	default:
		return fmt.Errorf("skills must be a mapping or a list")
	}
	return nil
}

// LoadPortfolio reads and parses a YAML or JSON portfolio file
func LoadPortfolio(path string) (*Load, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	return ParsePortfolio(content)
}

// ParsePortfolio parses portfolio content. Document-level problems are fatal;
// malformed experience entries are reported in Load.Rejected.
func ParsePortfolio(content []byte) (*Load, error) {
	var generic any
	if err := yaml.Unmarshal(content, &generic); err != nil {
		return nil, &LoadError{Message: "failed to parse portfolio", Cause: err}
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, &LoadError{Message: "portfolio is not representable as JSON", Cause: err}
	}
	if err := schemas.ValidatePortfolio(asJSON); err != nil {
		return nil, &LoadError{Message: "portfolio failed schema validation", Cause: err}
	}

	var raw rawPortfolio
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, &LoadError{Message: "failed to decode portfolio", Cause: err}
	}

	portfolio := &types.Portfolio{
		Name:     strings.TrimSpace(raw.Name),
		Email:    raw.Email,
		Phone:    raw.Phone,
		Location: raw.Location,
		LinkedIn: raw.LinkedIn,
		GitHub:   raw.GitHub,
		Summary:  strings.TrimSpace(raw.Summary),
		Skills:   []types.SkillGroup(raw.Skills),
	}
	for _, e := range raw.Education {
		portfolio.Education = append(portfolio.Education, types.Education(e))
	}
	for _, p := range raw.Projects {
		bullets := p.Bullets
		if len(bullets) == 0 {
			bullets = p.Description
		}
		portfolio.Projects = append(portfolio.Projects, types.Project{
			Name:         p.Name,
			Technologies: p.Technologies,
			Bullets:      bullets,
		})
	}

	entries := raw.Experiences
	if len(entries) == 0 {
		entries = raw.Experience
	}

	load := &Load{Portfolio: portfolio}
	validate := validator.New()
	for i, entry := range entries {
		exp, err := buildExperience(validate, i, entry)
		if err != nil {
			var malformed *MalformedEntryError
			if !errors.As(err, &malformed) {
				return nil, err
			}
			load.Rejected = append(load.Rejected, types.RejectedEntry{
				Index:   i,
				Company: malformed.Company,
				Role:    malformed.Role,
				Reason:  malformed.Error(),
			})
			continue
		}
		portfolio.Experiences = append(portfolio.Experiences, exp)
	}

	return load, nil
}

// buildExperience validates one raw entry and converts it. Any failure is a *MalformedEntryError.
func buildExperience(validate *validator.Validate, index int, raw rawExperience) (types.Experience, error) {
	role := strings.TrimSpace(raw.Role)
	if role == "" {
		role = strings.TrimSpace(raw.Position)
	}
	bullets := raw.Bullets
	if len(bullets) == 0 {
		bullets = raw.Achievements
	}
	trimmed := make([]string, len(bullets))
	for i, b := range bullets {
		trimmed[i] = strings.TrimSpace(b)
	}

	input := entryInput{
		Company:   strings.TrimSpace(raw.Company),
		Role:      role,
		StartDate: strings.TrimSpace(raw.StartDate),
		Bullets:   trimmed,
	}
	malformed := func(msg string, cause error) (types.Experience, error) {
		return types.Experience{}, &MalformedEntryError{
			Index:   index,
			Company: input.Company,
			Role:    input.Role,
			Message: msg,
			Cause:   cause,
		}
	}

	if err := validate.Struct(input); err != nil {
		return malformed("missing required fields", err)
	}

	start, err := ParseDate(input.StartDate)
	if err != nil {
		return malformed("unparseable start date", err)
	}
	endValue := raw.EndDate
	if raw.IsCurrent {
		endValue = "Present"
	}
	end, err := ParseEndDate(endValue)
	if err != nil {
		return malformed("unparseable end date", err)
	}
	if end != nil && end.Before(start) {
		return malformed(fmt.Sprintf("end date %s precedes start date %s", raw.EndDate, raw.StartDate), nil)
	}

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = fmt.Sprintf("exp-%d", index+1)
	}
	endDate := strings.TrimSpace(raw.EndDate)
	if end == nil {
		endDate = "Present"
	}

	exp := types.Experience{
		ID:           id,
		Company:      input.Company,
		Role:         input.Role,
		Location:     strings.TrimSpace(raw.Location),
		StartDate:    input.StartDate,
		EndDate:      endDate,
		Technologies: raw.Technologies,
		Start:        start,
		End:          end,
	}
	for i, text := range trimmed {
		exp.Bullets = append(exp.Bullets, types.Bullet{
			ID:           fmt.Sprintf("%s-b%d", id, i+1),
			ExperienceID: id,
			Text:         text,
		})
	}
	return exp, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
