package contactform

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/shared/api"
	"github.com/folio-dev/folio/shared/domain"
)

// --- Mocks ---

type notice struct {
	kind NoticeKind
	msg  string
}

// MockView records every call in order.
type MockView struct {
	mu       sync.Mutex
	errors   map[domain.Field]string
	counter  int
	enabled  bool
	label    string
	notices  []notice
	resets   int
	scrolls  int
	calls    []string
	disabled int
}

func newMockView() *MockView {
	return &MockView{errors: map[domain.Field]string{}, enabled: true, label: "Envoyer"}
}

func (v *MockView) record(call string) {
	v.calls = append(v.calls, call)
}

func (v *MockView) SetFieldError(field domain.Field, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("error:" + string(field))
	if msg == "" {
		delete(v.errors, field)
		return
	}
	v.errors[field] = msg
}

func (v *MockView) ClearErrors() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("clear")
	v.errors = map[domain.Field]string{}
}

func (v *MockView) SetCounter(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counter = n
}

func (v *MockView) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("enabled")
	if !enabled {
		v.disabled++
	}
	v.enabled = enabled
}

func (v *MockView) SetSubmitLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.label = label
}

func (v *MockView) ShowNotice(kind NoticeKind, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("notice")
	v.notices = append(v.notices, notice{kind, msg})
}

func (v *MockView) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resets++
}

func (v *MockView) ScrollToNotice() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

// MockSubmitter mocks the API client.
type MockSubmitter struct {
	submitFunc func(ctx context.Context, form url.Values) (api.ContactResponse, error)
	calls      int
	lastForm   url.Values
}

func (m *MockSubmitter) SubmitContact(ctx context.Context, form url.Values) (api.ContactResponse, error) {
	m.calls++
	m.lastForm = form
	if m.submitFunc != nil {
		return m.submitFunc(ctx, form)
	}
	return api.ContactResponse{Success: true, Message: "Merci Jean !"}, nil
}

// --- Helpers ---

func validForm() Form {
	return Form{
		Name:    "Jean Dupont",
		Email:   "jean.dupont@example.com",
		Subject: "Collaboration",
		Message: "Bonjour, je souhaite discuter d'un projet.",
		Privacy: true,
	}
}

// --- Tests ---

func TestSubmit_Success(t *testing.T) {
	view := newMockView()
	view.counter = 42
	submitter := &MockSubmitter{}
	c := New(view, submitter, "Envoyer")

	state, err := c.Submit(context.Background(), validForm())
	require.NoError(t, err)

	assert.Equal(t, Success, state)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, submitter.calls)
	assert.Equal(t, "1", submitter.lastForm.Get(api.FormPrivacy))
	assert.Equal(t, []notice{{NoticeSuccess, "Merci Jean !"}}, view.notices)
	assert.Equal(t, 1, view.resets)
	assert.Equal(t, 0, view.counter)
	assert.Equal(t, 1, view.scrolls)
	assert.True(t, view.enabled)
	assert.Equal(t, "Envoyer", view.label)
	assert.Equal(t, 1, view.disabled)
}

func TestSubmit_SuccessFallbackText(t *testing.T) {
	view := newMockView()
	submitter := &MockSubmitter{submitFunc: func(context.Context, url.Values) (api.ContactResponse, error) {
		return api.ContactResponse{Success: true}, nil
	}}

	state, err := New(view, submitter, "Envoyer").Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, Success, state)
	assert.Equal(t, []notice{{NoticeSuccess, SuccessFallback}}, view.notices)
}

func TestSubmit_Invalid(t *testing.T) {
	view := newMockView()
	view.errors[domain.FieldSubject] = "stale"
	submitter := &MockSubmitter{}
	c := New(view, submitter, "Envoyer")

	form := validForm()
	form.Name = "J"
	form.Email = "jean@"
	form.Privacy = false

	state, err := c.Submit(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, Invalid, state)
	assert.Equal(t, 0, submitter.calls)
	assert.Equal(t, map[domain.Field]string{
		domain.FieldName:    "Le nom est trop court.",
		domain.FieldEmail:   "Email invalide.",
		domain.FieldPrivacy: "Vous devez accepter le traitement de vos données.",
	}, view.errors)
	assert.Equal(t, "clear", view.calls[0])
	assert.Empty(t, view.notices)
	assert.Equal(t, 0, view.disabled, "submit control untouched when invalid")
}

func TestSubmit_ServerRefusal(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"server message relayed", "Adresse e-mail invalide.", "Adresse e-mail invalide."},
		{"fallback", "", FailureFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newMockView()
			submitter := &MockSubmitter{submitFunc: func(context.Context, url.Values) (api.ContactResponse, error) {
				return api.ContactResponse{Success: false, Message: tt.message}, nil
			}}

			state, err := New(view, submitter, "Envoyer").Submit(context.Background(), validForm())
			require.NoError(t, err)
			assert.Equal(t, Error, state)
			assert.Equal(t, []notice{{NoticeError, tt.expected}}, view.notices)
			assert.Equal(t, 0, view.resets)
			assert.True(t, view.enabled)
			assert.Equal(t, "Envoyer", view.label)
		})
	}
}

func TestSubmit_NetworkError(t *testing.T) {
	view := newMockView()
	submitter := &MockSubmitter{submitFunc: func(context.Context, url.Values) (api.ContactResponse, error) {
		return api.ContactResponse{}, errors.New("backend returned status 400")
	}}

	state, err := New(view, submitter, "Envoyer").Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, Error, state)
	assert.Equal(t, []notice{{NoticeError, NetworkErrorNotice}}, view.notices)
	assert.True(t, view.enabled)
	assert.Equal(t, "Envoyer", view.label)
}

func TestSubmit_BusyStateDuringRequest(t *testing.T) {
	view := newMockView()
	var labelDuring string
	var enabledDuring bool
	var c *Controller
	var stateDuring State
	submitter := &MockSubmitter{submitFunc: func(context.Context, url.Values) (api.ContactResponse, error) {
		labelDuring, enabledDuring = view.label, view.enabled
		stateDuring = c.State()
		return api.ContactResponse{Success: true}, nil
	}}
	c = New(view, submitter, "Envoyer")

	_, err := c.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, BusyLabel, labelDuring)
	assert.False(t, enabledDuring)
	assert.Equal(t, Submitting, stateDuring)
}

func TestSubmit_SecondSubmitWhileInFlight(t *testing.T) {
	view := newMockView()
	started := make(chan struct{})
	release := make(chan struct{})
	submitter := &MockSubmitter{submitFunc: func(context.Context, url.Values) (api.ContactResponse, error) {
		close(started)
		<-release
		return api.ContactResponse{Success: true}, nil
	}}
	c := New(view, submitter, "Envoyer")

	done := make(chan State)
	go func() {
		state, _ := c.Submit(context.Background(), validForm())
		done <- state
	}()
	<-started

	view.mu.Lock()
	callsBefore := len(view.calls)
	view.mu.Unlock()

	state, err := c.Submit(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, Submitting, state)

	view.mu.Lock()
	assert.Equal(t, callsBefore, len(view.calls), "view untouched by the rejected submit")
	view.mu.Unlock()

	close(release)
	assert.Equal(t, Success, <-done)
	assert.Equal(t, 1, submitter.calls)

	// A new submission is accepted once the first one finished.
	submitter.submitFunc = nil
	state, err = c.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, Success, state)
}

func TestOnInput(t *testing.T) {
	view := newMockView()
	c := New(view, &MockSubmitter{}, "Envoyer")

	c.OnInput("héllo")
	assert.Equal(t, 5, view.counter)
	c.OnInput("")
	assert.Equal(t, 0, view.counter)
}

func TestOnBlur(t *testing.T) {
	view := newMockView()
	c := New(view, &MockSubmitter{}, "Envoyer")

	c.OnBlur(domain.FieldName, "J")
	assert.Equal(t, "Au moins 2 caractères.", view.errors[domain.FieldName])

	c.OnBlur(domain.FieldName, "  Jean ")
	_, present := view.errors[domain.FieldName]
	assert.False(t, present)

	c.OnBlur(domain.FieldMessage, "court")
	assert.Equal(t, "Au moins 10 caractères.", view.errors[domain.FieldMessage])

	c.OnBlur(domain.FieldEmail, "nope")
	assert.Equal(t, "Email invalide.", view.errors[domain.FieldEmail])

	view.errors[domain.FieldPrivacy] = "kept"
	c.OnBlur(domain.FieldPrivacy, "")
	assert.Equal(t, "kept", view.errors[domain.FieldPrivacy])
}

func TestFormValues(t *testing.T) {
	f := validForm()
	f.Privacy = false
	v := f.Values()
	_, has := v[api.FormPrivacy]
	assert.False(t, has)
	assert.Equal(t, "Jean Dupont", v.Get(api.FormName))
}
