package focus

import (
	"context"
	"fmt"
	"strings"

	"studydesk/backend/internal/model"
)

const templateSource = "template"

// TemplateStore is the part of the persistence gateway that holds templates.
type TemplateStore interface {
	ListFocusTemplates(ctx context.Context, includeArchived bool) ([]model.FocusTemplate, error)
	GetFocusTemplate(ctx context.Context, id string) (*model.FocusTemplate, error)
	CreateFocusTemplate(ctx context.Context, input model.FocusTemplateInput) (*model.FocusTemplate, error)
	ArchiveFocusTemplate(ctx context.Context, id string) error
}

type TemplateManager struct {
	store   TemplateStore
	recents *Recents
}

func NewTemplateManager(store TemplateStore, recents *Recents) *TemplateManager {
	if recents == nil {
		recents = NewRecents()
	}
	return &TemplateManager{store: store, recents: recents}
}

func (m *TemplateManager) Create(ctx context.Context, input model.FocusTemplateInput) (*model.FocusTemplate, error) {
	input = input.Normalize()
	if !model.IsValidFocusTimerType(input.TimerType) {
		return nil, fmt.Errorf("%w: timer_type must be one of pomodoro, countdown", ErrInvalidInput)
	}
	return m.store.CreateFocusTemplate(ctx, input)
}

// Archive hides the template from active lists and drops it from recents.
func (m *TemplateManager) Archive(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: template id is required", ErrInvalidInput)
	}
	if err := m.store.ArchiveFocusTemplate(ctx, id); err != nil {
		return err
	}
	m.recents.Forget(id)
	return nil
}

func (m *TemplateManager) List(ctx context.Context, includeArchived bool) ([]model.FocusTemplate, error) {
	return m.store.ListFocusTemplates(ctx, includeArchived)
}

// Resolve returns a template by id, archived or not.
func (m *TemplateManager) Resolve(ctx context.Context, id string) (*model.FocusTemplate, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: template id is required", ErrInvalidInput)
	}
	return m.store.GetFocusTemplate(ctx, id)
}

// Seed returns the run request an active template starts. Recency is left
// alone until the run actually starts; see Started.
func (m *TemplateManager) Seed(ctx context.Context, id string) (StartRequest, error) {
	template, err := m.Resolve(ctx, id)
	if err != nil {
		return StartRequest{}, err
	}
	if template.IsArchived {
		return StartRequest{}, fmt.Errorf("%w: template %s is archived", ErrInvalidInput, id)
	}

	templateID := template.ID
	return StartRequest{
		Source:         templateSource,
		TemplateID:     &templateID,
		TimerType:      template.TimerType,
		PlannedMinutes: template.DurationMinutes,
		Tags:           append([]string(nil), template.Tags...),
	}, nil
}

// Started records the template of a run the engine accepted as recently used.
func (m *TemplateManager) Started(run model.FocusRun) {
	if run.TemplateID == nil || *run.TemplateID == "" {
		return
	}
	m.recents.Touch(*run.TemplateID)
}

// Recent lists the remembered templates that are still active, newest first.
func (m *TemplateManager) Recent(ctx context.Context) ([]model.FocusTemplate, error) {
	templates, err := m.store.ListFocusTemplates(ctx, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.FocusTemplate, len(templates))
	for _, template := range templates {
		byID[template.ID] = template
	}

	recent := []model.FocusTemplate{}
	for _, id := range m.recents.IDs() {
		if template, ok := byID[id]; ok {
			recent = append(recent, template)
		}
	}
	return recent, nil
}

func (m *TemplateManager) Recents() *Recents {
	return m.recents
}
