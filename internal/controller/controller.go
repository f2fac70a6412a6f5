// Package controller owns the component registry, the current page and the
// app state, and fans mutation events out to the components that declared
// interest in them.
package controller

import (
	"github.com/bnema/fin/internal/bus"
	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/sirupsen/logrus"
)

type CurrentPage struct {
	Name    string
	Options PageOptions
}

// Controller is not safe for concurrent use; every call belongs on the
// callback loop.
type Controller struct {
	bus       *bus.Bus
	log       logrus.FieldLogger
	presenter ErrorPresenter

	pages   *registry[Page]
	widgets *registry[Widget]
	modals  *registry[Modal]
	forms   *registry[Form]

	current *CurrentPage
	state   State
	started bool
	unsubs  []func()
}

func New(b *bus.Bus, logger logrus.FieldLogger) *Controller {
	if b == nil {
		b = bus.New()
	}
	return &Controller{
		bus:     b,
		log:     logging.Component(logger, "controller"),
		pages:   newRegistry[Page]("page"),
		widgets: newRegistry[Widget]("widget"),
		modals:  newRegistry[Modal]("modal"),
		forms:   newRegistry[Form]("form"),
		state:   StateInit,
	}
}

func (c *Controller) RegisterPage(name string, p Page) {
	c.mustNotBeStarted()
	c.pages.add(name, p)
}

func (c *Controller) RegisterWidget(name string, w Widget) {
	c.mustNotBeStarted()
	c.widgets.add(name, w)
}

func (c *Controller) RegisterModal(name string, m Modal) {
	c.mustNotBeStarted()
	c.modals.add(name, m)
}

func (c *Controller) RegisterForm(name string, f Form) {
	c.mustNotBeStarted()
	c.forms.add(name, f)
}

func (c *Controller) SetErrorPresenter(p ErrorPresenter) {
	c.presenter = p
}

// Start freezes the registry and subscribes everything to the bus. The
// controller takes SessionChanged first, then pages, widgets and forms
// subscribe in that order.
func (c *Controller) Start() {
	c.mustNotBeStarted()
	c.started = true

	c.unsubs = append(c.unsubs, c.bus.Subscribe(bus.SessionChanged, c.onSessionChanged))
	c.pages.each(func(_ string, p Page) { c.subscribe(p) })
	c.widgets.each(func(_ string, w Widget) { c.subscribe(w) })
	c.forms.each(func(_ string, f Form) { c.subscribe(f) })
}

// Stop drops every bus subscription made by Start.
func (c *Controller) Stop() {
	for _, unsubscribe := range c.unsubs {
		unsubscribe()
	}
	c.unsubs = nil
}

func (c *Controller) subscribe(component any) {
	sub, ok := component.(Subscriber)
	if !ok {
		return
	}
	for _, kind := range sub.Subscriptions() {
		c.unsubs = append(c.unsubs, c.bus.Subscribe(kind, sub.HandleEvent))
	}
}

func (c *Controller) mustNotBeStarted() {
	if c.started {
		panic("controller: registry is read-only after Start")
	}
}

func (c *Controller) Page(name string) Page {
	return c.pages.get(name)
}

func (c *Controller) Widget(name string) Widget {
	return c.widgets.get(name)
}

func (c *Controller) Modal(name string) Modal {
	return c.modals.get(name)
}

func (c *Controller) Form(name string) Form {
	return c.forms.get(name)
}

// OpenModal opens name and closes every other modal.
func (c *Controller) OpenModal(name string) {
	target := c.modals.get(name)
	c.modals.each(func(other string, m Modal) {
		if other != name {
			m.Close()
		}
	})
	target.Open()
}

func (c *Controller) CloseModals() {
	c.modals.each(func(_ string, m Modal) { m.Close() })
}

func (c *Controller) ShowPage(name string, opts PageOptions) {
	page := c.pages.get(name)
	c.current = &CurrentPage{Name: name, Options: opts}
	c.log.WithFields(logrus.Fields{"page": name, "account_id": opts.AccountID.String()}).Debug("page shown")
	page.Render(opts)
}

func (c *Controller) CurrentPage() (CurrentPage, bool) {
	if c.current == nil {
		return CurrentPage{}, false
	}
	return *c.current, true
}

// Update re-renders the active page, if any.
func (c *Controller) Update() {
	if c.current == nil {
		return
	}
	c.pages.get(c.current.Name).Update()
}

func (c *Controller) UpdateWidgets() {
	c.widgets.each(func(_ string, w Widget) { w.Update() })
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) SetState(state State) {
	c.state = state
	c.log.WithField("state", string(state)).Debug("state changed")

	switch state {
	case StateInit:
		c.pages.each(func(_ string, p Page) { p.Clear() })
		c.current = nil
		c.CloseModals()
		c.widgets.each(func(_ string, w Widget) { w.Clear() })
	case StateUser:
		c.UpdateWidgets()
		c.Update()
	}
}

// Publish hands a mutation event to its subscribers and returns how many
// received it.
func (c *Controller) Publish(event bus.Event) int {
	delivered := c.bus.Publish(event)
	c.log.WithFields(logrus.Fields{"event": string(event.Kind), "subscribers": delivered}).Debug("event published")
	return delivered
}

// SessionChanged lets the session service announce sign-ins and sign-outs.
func (c *Controller) SessionChanged(session *domain.Session) {
	c.Publish(bus.Event{Kind: bus.SessionChanged, Session: session})
}

func (c *Controller) onSessionChanged(event bus.Event) {
	if event.Session == nil {
		c.SetState(StateInit)
		return
	}
	c.SetState(StateUser)
}

// ReportError is where every failed request ends up: it is logged and
// handed to the error presenter.
func (c *Controller) ReportError(err error) {
	if err == nil {
		return
	}
	kind := domain.KindOf(err)
	entry := c.log.WithError(err).WithField("kind", string(kind))
	if kind == domain.ErrorKindValidation {
		entry.Info("request not sent")
	} else {
		entry.Warn("request failed")
	}
	if c.presenter != nil {
		c.presenter.PresentError(err)
	}
}
