package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/announcement-portal-api/internal/dto"
	"github.com/noah-isme/announcement-portal-api/internal/models"
	"github.com/noah-isme/announcement-portal-api/pkg/config"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

type announcementStore interface {
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	CreateBatch(ctx context.Context, announcements []*models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Exists(ctx context.Context, filter models.AnnouncementExistsFilter) (bool, error)
}

type referenceProvider interface {
	Load(ctx context.Context) (*models.ReferenceData, error)
}

type wizardMetrics interface {
	SetActiveSessions(count int)
	IncSubmission(flow, outcome string)
	AddBulkRows(result string, count int)
}

// WizardService is the flow controller: it owns the wizard sessions and
// drives every step transition for both authoring paths. All mutations happen
// synchronously under the store lock; only the repository calls during
// session start and submit suspend.
type WizardService struct {
	store     announcementStore
	refs      referenceProvider
	fields    *FieldValidator
	bulk      *BulkImportPipeline
	metrics   wizardMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.WizardConfig
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*models.WizardSession
}

// NewWizardService constructs the flow controller.
func NewWizardService(store announcementStore, refs referenceProvider, cfg config.WizardConfig, validate *validator.Validate, logger *zap.Logger) *WizardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PlannedScheduledType == "" {
		cfg.PlannedScheduledType = "Planned Scheduled"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &WizardService{
		store:     store,
		refs:      refs,
		fields:    NewFieldValidator(cfg),
		bulk:      NewBulkImportPipeline(cfg.MaxBulkRows),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		sessions:  make(map[string]*models.WizardSession),
	}
}

// WithClock overrides the time source. Test seam.
func (s *WizardService) WithClock(now func() time.Time) *WizardService {
	s.now = now
	return s
}

// WithMetrics attaches a metrics recorder.
func (s *WizardService) WithMetrics(m wizardMetrics) *WizardService {
	s.metrics = m
	return s
}

// StartSession opens a new wizard session. CREATE starts at flow selection
// with an empty draft; EDIT loads the stored record, snapshots it as the
// baseline, and enters the field step directly with the selection step
// suppressed and pre-validated.
func (s *WizardService) StartSession(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session request")
	}
	refs, err := s.refs.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.WizardSession{
		ID:        uuid.NewString(),
		Mode:      models.WizardMode(req.Mode),
		Variant:   req.Variant,
		Draft:     models.NewAnnouncementDraft(),
		Reference: refs,
		CreatedAt: now,
		TouchedAt: now,
	}
	if session.Variant == "" {
		session.Variant = VariantWizard
	}

	switch session.Mode {
	case models.ModeCreate:
		session.Step = models.StepSelectFlow
		session.Baseline = session.Draft.Clone()
	case models.ModeEdit:
		record, err := s.store.GetByID(ctx, req.RecordID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
		}
		session.Flow = models.FlowSingle
		session.Step = models.StepSingleEditFields
		session.EditRecordID = record.ID
		session.Draft = s.draftFromRecord(record, refs, now)
		session.Baseline = session.Draft.Clone()
	}

	s.refreshSingle(session)

	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SetActiveSessions(count)
	}

	s.logger.Info("wizard session started",
		zap.String("session_id", session.ID),
		zap.String("mode", string(session.Mode)))
	return s.view(session, ""), nil
}

// GetSession returns the current session projection.
func (s *WizardService) GetSession(id string) (*dto.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.view(session, ""), nil
}

// SelectFlow sets the authoring path, resets the inactive path's data, and
// advances to the flow's first content step.
func (s *WizardService) SelectFlow(id string, req dto.SelectFlowRequest) (*dto.SessionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid flow selection")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if session.Step.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "session already finished")
	}
	if session.Mode == models.ModeEdit {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "edit sessions are single-record only")
	}

	session.Flow = models.WizardFlow(req.Flow)
	session.TouchedAt = s.now()
	switch session.Flow {
	case models.FlowSingle:
		session.BulkRows = nil
		session.LastRowErrors = nil
		session.Step = models.StepSingleEditFields
		s.refreshSingle(session)
	case models.FlowBulk:
		session.Draft = models.NewAnnouncementDraft()
		session.Baseline = session.Draft.Clone()
		session.Step = models.StepBulkDownload
		session.Dirty = false
		session.StepValid = true
		s.refreshAffordances(session)
	}
	return s.view(session, ""), nil
}

// UpdateField mutates one draft field, dispatching on the tagged field kind,
// then recomputes validity, dirtiness, and affordances.
func (s *WizardService) UpdateField(id string, req dto.FieldInputRequest) (*dto.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepSingleEditFields {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "fields can only change during the edit step")
	}

	now := s.now()
	warning := ""
	draft := session.Draft

	switch models.FieldKind(req.Kind) {
	case models.FieldTitle:
		draft.Title = req.Value

	case models.FieldTypes:
		keys := make([]string, 0, len(req.Values))
		for _, key := range req.Values {
			if !session.Reference.Types.HasKey(key) {
				return nil, appErrors.FieldError(appErrors.ErrValidation, "announcementTypes", "unknown announcement type key "+key)
			}
			keys = append(keys, key)
		}
		draft.TypeKeys = keys

	case models.FieldCategories:
		keys := make([]string, 0, len(req.Values))
		for _, key := range req.Values {
			if !session.Reference.Categories.HasKey(key) {
				return nil, appErrors.FieldError(appErrors.ErrValidation, "categories", "unknown category key "+key)
			}
			keys = append(keys, key)
		}
		draft.CategoryKeys = keys

	case models.FieldDescription:
		clipped, warned := s.fields.ApplyDescription(session, req.Value, session.Variant, now)
		if clipped && warned {
			warning = "description exceeds the allowed length and was not applied"
		}

	case models.FieldPublishChoice:
		choice := models.PublishChoice(strings.ToUpper(strings.TrimSpace(req.Value)))
		if choice != models.PublishNow && choice != models.PublishLater {
			return nil, appErrors.FieldError(appErrors.ErrValidation, "publishChoice", "must be NOW or LATER")
		}
		draft.PublishChoice = choice
		start, end := DefaultScheduleDates(choice, now)
		draft.StartDate = start
		draft.EndDate = end
		if choice == models.PublishLater {
			draft.MinEndDate = MinimumEndDate(start)
		} else {
			draft.MinEndDate = MinimumEndDate(now)
		}

	case models.FieldStartDate:
		date, ok := ParseFlexibleDate(req.Value)
		if !ok {
			return nil, appErrors.FieldError(appErrors.ErrValidation, "startDate", "not a recognised date")
		}
		draft.StartDate = date
		draft.EndDate = DerivedEndDate(date)
		draft.MinEndDate = MinimumEndDate(date)

	case models.FieldEndDate:
		date, ok := ParseFlexibleDate(req.Value)
		if !ok {
			return nil, appErrors.FieldError(appErrors.ErrValidation, "endDate", "not a recognised date")
		}
		draft.EndDate = date

	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown field kind "+req.Kind)
	}

	session.TouchedAt = now
	s.refreshSingle(session)
	return s.view(session, warning), nil
}

// AdvanceStep moves to the next step in the flow's fixed sequence. It fails
// when the current step has not validated.
func (s *WizardService) AdvanceStep(id string) (*dto.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !session.StepValid {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "current step has not validated")
	}
	next, ok := nextStep(session.Flow, session.Step)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "no further step in this flow")
	}
	session.Step = next
	session.TouchedAt = s.now()
	s.refreshStepValidity(session)
	s.refreshAffordances(session)
	return s.view(session, ""), nil
}

// UploadSheet replaces the session's bulk rows wholesale with the parsed
// content of the uploaded sheet. Only structural validation and parsing run
// here; row-level semantic validation waits until submit.
func (s *WizardService) UploadSheet(id string, r io.Reader) (*dto.SessionView, error) {
	rows, err := s.bulk.ParseSheet(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if session.Flow != models.FlowBulk || (session.Step != models.StepBulkUpload && session.Step != models.StepBulkReview) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "session is not accepting uploads")
	}
	session.BulkRows = rows
	session.LastRowErrors = nil
	session.Step = models.StepBulkUpload
	session.TouchedAt = s.now()
	s.refreshStepValidity(session)
	s.refreshAffordances(session)
	return s.view(session, ""), nil
}

// Reset restores the draft: CREATE clears it to empty, EDIT restores the
// baseline snapshot. The dirty flag always clears, disabling the reset
// affordance. Calling it twice yields the same draft as calling it once.
// Reset is a single-flow affordance; bulk sessions re-upload instead.
func (s *WizardService) Reset(id string) (*dto.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if session.Step.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "session already finished")
	}
	if session.Flow == models.FlowBulk {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "reset is not available in the bulk flow")
	}
	switch session.Mode {
	case models.ModeCreate:
		session.Draft = models.NewAnnouncementDraft()
	case models.ModeEdit:
		session.Draft = session.Baseline.Clone()
	}
	session.TouchedAt = s.now()
	s.refreshSingle(session)
	return s.view(session, ""), nil
}

// Cancel discards the session without touching the submission boundary. A
// submission already in flight keeps running but its result is ignored.
func (s *WizardService) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}
	delete(s.sessions, id)
	if s.metrics != nil {
		s.metrics.SetActiveSessions(len(s.sessions))
	}
	s.logger.Info("wizard session cancelled", zap.String("session_id", id))
	return nil
}

// Submit hands the finished draft or bulk row set to the submission boundary.
// At most one submission may be outstanding per session; a second attempt
// while one is pending is rejected, not queued.
func (s *WizardService) Submit(ctx context.Context, id string, claims *models.JWTClaims) (*dto.SubmitResult, error) {
	s.mu.Lock()
	session, err := s.find(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session.Step.Terminal() {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "session already finished")
	}
	if session.SubmitPending {
		s.mu.Unlock()
		return nil, appErrors.ErrSubmissionPending
	}
	session.SubmitPending = true
	flow := session.Flow
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if live, ok := s.sessions[id]; ok {
			live.SubmitPending = false
		}
		s.mu.Unlock()
	}()

	// The current user is resolved before every create/update.
	email, err := currentUserEmail(claims)
	if err != nil {
		return nil, err
	}

	var result *dto.SubmitResult
	switch flow {
	case models.FlowSingle:
		result, err = s.submitSingle(ctx, session, email)
	case models.FlowBulk:
		result, err = s.submitBulk(ctx, session, email)
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "select a flow before submitting")
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncSubmission(string(flow), "error")
		}
		return nil, err
	}

	if result.Accepted {
		s.mu.Lock()
		if live, ok := s.sessions[id]; ok {
			live.Step = models.StepSubmitted
			live.TouchedAt = s.now()
			s.refreshAffordances(live)
		} else {
			// Session cancelled while the boundary call was in flight;
			// the late result is discarded.
			s.logger.Info("discarding submission result for cancelled session", zap.String("session_id", id))
		}
		s.mu.Unlock()
	}
	if s.metrics != nil {
		outcome := "accepted"
		if !result.Accepted {
			outcome = "blocked"
		}
		s.metrics.IncSubmission(string(flow), outcome)
	}
	return result, nil
}

// RowErrors returns the error list from the last blocked bulk submission.
func (s *WizardService) RowErrors(id string) ([]models.RowError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return append([]models.RowError(nil), session.LastRowErrors...), nil
}

// Sweep removes sessions idle past the TTL. Terminal sessions linger for one
// TTL so clients can still fetch the final view.
func (s *WizardService) Sweep() int {
	cutoff := s.now().Add(-s.cfg.SessionTTL)
	s.mu.Lock()
	removed := 0
	for id, session := range s.sessions {
		if session.TouchedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()
	if removed > 0 {
		s.logger.Info("swept idle wizard sessions", zap.Int("removed", removed))
	}
	if s.metrics != nil {
		s.metrics.SetActiveSessions(count)
	}
	return removed
}

// RunSweeper sweeps on an interval until the context ends.
func (s *WizardService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *WizardService) submitSingle(ctx context.Context, session *models.WizardSession, email string) (*dto.SubmitResult, error) {
	s.mu.Lock()
	if session.Step != models.StepSingleEditFields && session.Step != models.StepSingleReview {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "session is not ready to submit")
	}
	if !s.fields.ValidateDraft(session.Draft) {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "draft has invalid fields")
	}
	draft := session.Draft.Clone()
	refs := session.Reference
	mode := session.Mode
	editID := session.EditRecordID
	s.mu.Unlock()

	now := s.now()
	resolution, err := ResolveSchedule(draft.PublishChoice, draft.StartDate, draft.EndDate, now)
	if err != nil {
		return nil, err
	}

	typeNames := make([]string, 0, len(draft.TypeKeys))
	hasPlanned := false
	for _, key := range draft.TypeKeys {
		name, ok := refs.Types.DisplayName(key)
		if !ok {
			return nil, appErrors.FieldError(appErrors.ErrValidation, "announcementTypes", "unknown announcement type key "+key)
		}
		typeNames = append(typeNames, name)
		if name == s.cfg.PlannedScheduledType {
			hasPlanned = true
		}
	}

	if hasPlanned {
		exists, err := s.store.Exists(ctx, models.AnnouncementExistsFilter{
			TypeName:    s.cfg.PlannedScheduledType,
			ActiveAfter: now,
			ExcludeID:   editID,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for a scheduled announcement")
		}
		if exists {
			return nil, appErrors.ErrDuplicateScheduled
		}
	}

	record := &models.Announcement{
		Title:              strings.TrimSpace(draft.Title),
		Description:        draft.DescriptionHTML,
		AnnouncementType:   strings.Join(typeNames, ", "),
		AnnouncementStatus: resolution.Status,
		StartAnnouncement:  resolution.Start,
		EndAnnouncement:    resolution.End,
		PublishedBy:        email,
		PublishedAt:        now,
		CategoryKeys:       append([]string{}, draft.CategoryKeys...),
	}

	switch mode {
	case models.ModeEdit:
		record.ID = editID
		record.ModifiedBy = &email
		modifiedAt := now
		record.ModifiedAt = &modifiedAt
		if err := s.store.Update(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
		}
	default:
		if err := s.store.Create(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
		}
	}

	s.logger.Info("announcement submitted",
		zap.String("record_id", record.ID),
		zap.String("status", string(record.AnnouncementStatus)))
	return &dto.SubmitResult{Accepted: true, RecordIDs: []string{record.ID}}, nil
}

func (s *WizardService) submitBulk(ctx context.Context, session *models.WizardSession, email string) (*dto.SubmitResult, error) {
	s.mu.Lock()
	if session.Step != models.StepBulkUpload && session.Step != models.StepBulkReview {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "session is not ready to submit")
	}
	if len(session.BulkRows) == 0 {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "upload a sheet before submitting")
	}
	rows := make([]models.BulkRow, len(session.BulkRows))
	copy(rows, session.BulkRows)
	refs := session.Reference
	s.mu.Unlock()

	now := s.now()
	rowErrors := s.bulk.ValidateRows(rows, refs, now)

	// Write back only through the store; sessions cancelled while validation
	// ran stay untouched, matching the single path's late-result handling.
	s.mu.Lock()
	if live, ok := s.sessions[session.ID]; ok {
		live.BulkRows = rows
		live.LastRowErrors = rowErrors
	}
	s.mu.Unlock()

	if len(rowErrors) > 0 {
		// One bad row blocks the entire batch; nothing reaches the boundary.
		if s.metrics != nil {
			s.metrics.AddBulkRows("rejected", len(rows))
		}
		return &dto.SubmitResult{Accepted: false, RowErrors: rowErrors}, nil
	}

	records, err := s.bulk.Reconcile(rows, refs, now)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		record.PublishedBy = email
		record.PublishedAt = now
	}
	if err := s.store.CreateBatch(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcements")
	}
	if s.metrics != nil {
		s.metrics.AddBulkRows("accepted", len(records))
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	s.logger.Info("bulk announcements submitted", zap.Int("count", len(ids)))
	return &dto.SubmitResult{Accepted: true, RecordIDs: ids}, nil
}

func (s *WizardService) draftFromRecord(record *models.Announcement, refs *models.ReferenceData, now time.Time) *models.AnnouncementDraft {
	draft := models.NewAnnouncementDraft()
	draft.Title = record.Title
	draft.DescriptionHTML = record.Description
	for _, name := range models.SplitTokens(record.AnnouncementType) {
		if entry, ok := refs.Types.Canonical(name); ok {
			draft.TypeKeys = append(draft.TypeKeys, entry.Key)
		}
	}
	draft.CategoryKeys = append(draft.CategoryKeys, record.CategoryKeys...)
	draft.PublishChoice = DisplayChoice(record.StartAnnouncement, now)
	draft.StartDate = DateOnly(record.StartAnnouncement)
	// Stored end is the exclusive boundary; display the inclusive date.
	draft.EndDate = DateOnly(record.EndAnnouncement).AddDate(0, 0, -1)
	draft.MinEndDate = MinimumEndDate(draft.StartDate)
	return draft
}

// refreshSingle recomputes validity, dirtiness, and affordances after a
// single-flow mutation.
func (s *WizardService) refreshSingle(session *models.WizardSession) {
	if session.Draft != nil {
		session.StepValid = s.fields.ValidateDraft(session.Draft)
	}
	session.Dirty = IsDirty(session.Draft, session.Baseline, session.Mode)
	s.refreshAffordances(session)
}

func (s *WizardService) refreshStepValidity(session *models.WizardSession) {
	switch session.Step {
	case models.StepSelectFlow:
		session.StepValid = false
	case models.StepSingleEditFields, models.StepSingleReview:
		session.StepValid = s.fields.ValidateDraft(session.Draft)
	case models.StepBulkDownload:
		session.StepValid = true
	case models.StepBulkUpload, models.StepBulkReview:
		session.StepValid = len(session.BulkRows) > 0
	default:
		session.StepValid = false
	}
}

func (s *WizardService) refreshAffordances(session *models.WizardSession) {
	a := models.Affordances{CanCancel: true}
	if !session.Step.Terminal() {
		a.CanReset = session.Dirty && session.Flow == models.FlowSingle
		_, hasNext := nextStep(session.Flow, session.Step)
		a.CanAdvance = hasNext && session.StepValid
		a.CanSubmit = session.StepValid &&
			(session.Step == models.StepSingleEditFields || session.Step == models.StepSingleReview ||
				session.Step == models.StepBulkUpload || session.Step == models.StepBulkReview)
	} else {
		a.CanCancel = false
	}
	session.Affordances = a
}

func (s *WizardService) find(id string) (*models.WizardSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}
	return session, nil
}

func (s *WizardService) view(session *models.WizardSession, warning string) *dto.SessionView {
	view := &dto.SessionView{
		ID:          session.ID,
		Flow:        session.Flow,
		Mode:        session.Mode,
		Step:        session.Step,
		BulkRows:    len(session.BulkRows),
		Dirty:       session.Dirty,
		StepValid:   session.StepValid,
		Affordances: session.Affordances,
		Warning:     warning,
	}
	if session.Flow != models.FlowBulk {
		view.Draft = session.Draft.Clone()
	}
	return view
}

func nextStep(flow models.WizardFlow, step models.WizardStep) (models.WizardStep, bool) {
	switch flow {
	case models.FlowSingle:
		switch step {
		case models.StepSelectFlow:
			return models.StepSingleEditFields, true
		case models.StepSingleEditFields:
			return models.StepSingleReview, true
		}
	case models.FlowBulk:
		switch step {
		case models.StepSelectFlow:
			return models.StepBulkDownload, true
		case models.StepBulkDownload:
			return models.StepBulkUpload, true
		case models.StepBulkUpload:
			return models.StepBulkReview, true
		}
	}
	return "", false
}

func currentUserEmail(claims *models.JWTClaims) (string, error) {
	if claims == nil || strings.TrimSpace(claims.Email) == "" {
		return "", appErrors.Clone(appErrors.ErrAuthContext, "current user email unavailable")
	}
	return claims.Email, nil
}
