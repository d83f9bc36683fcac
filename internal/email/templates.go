package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Built-in template names.
const (
	TemplateApplicationReceived = "application_received"
	TemplateApplicationStatus   = "application_status"
)

var builtinTemplates = map[string]string{
	TemplateApplicationReceived: `<p>Hello {{.EmployerName}},</p>
<p>{{.ApplicantName}} applied to <strong>{{.JobTitle}}</strong>.</p>
<p>Review the application from your dashboard.</p>`,
	TemplateApplicationStatus: `<p>Hello {{.ApplicantName}},</p>
<p>Your application for <strong>{{.JobTitle}}</strong> is now <strong>{{.Status}}</strong>.</p>`,
}

// TemplateManager renders named html templates.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		template.Must(tm.parse(name, body))
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate registers or replaces a template.
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	_, err := tm.parse(name, templateStr)
	return err
}

func (tm *TemplateManager) parse(name, templateStr string) (*template.Template, error) {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return tpl, nil
}
