package navigation

import "strings"

// Crumb is one breadcrumb segment
type Crumb struct {
	Label string `json:"label"`
	ID    string `json:"id"`
	Level Level  `json:"level"`
}

// Breadcrumbs lists the selected entities from the project down
func Breadcrumbs(c Context) []Crumb {
	var crumbs []Crumb
	if c.Project != nil {
		crumbs = append(crumbs, Crumb{Label: c.Project.Name, ID: c.Project.ID, Level: LevelProject})
	}
	if c.KnowledgeBase != nil {
		crumbs = append(crumbs, Crumb{Label: c.KnowledgeBase.Name, ID: c.KnowledgeBase.ID, Level: LevelKnowledgeBase})
	}
	if c.Document != nil {
		crumbs = append(crumbs, Crumb{Label: c.Document.Name, ID: c.Document.ID, Level: LevelDocument})
	}
	if c.DocumentVersion != nil {
		crumbs = append(crumbs, Crumb{
			Label: versionLabel(c.DocumentVersion.VersionNumber),
			ID:    c.DocumentVersion.ID,
			Level: LevelDocumentVersion,
		})
	}
	if c.KBVersion != nil {
		crumbs = append(crumbs, Crumb{
			Label: versionLabel(c.KBVersion.VersionNumber),
			ID:    c.KBVersion.ID,
			Level: LevelKBVersion,
		})
	}
	return crumbs
}

// Path renders the breadcrumbs joined by sep
func Path(c Context, sep string) string {
	crumbs := Breadcrumbs(c)
	labels := make([]string, 0, len(crumbs)+1)
	labels = append(labels, "Projects")
	for _, cr := range crumbs {
		labels = append(labels, cr.Label)
	}
	return strings.Join(labels, sep)
}

func versionLabel(number string) string {
	if strings.HasPrefix(number, "v") {
		return number
	}
	return "v" + number
}
