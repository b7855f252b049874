package relay

// Link is a download affordance bound to a stored result.
type Link struct {
	Direction string
	Href      string
	Path      string
	Filename  string
	Label     string
	Visible   bool
}

// View is the part of the host screen the relay writes to.
type View interface {
	ShowDownload(link Link)
	ShowMessage(text string)
	ShowError(text string)
	ClearError()
	ClearMessage()
}

// Page is an in-memory View: one link per direction and a single error text.
type Page struct {
	Links   map[string]Link
	Message string
	Error   string
}

func NewPage() *Page {
	return &Page{Links: make(map[string]Link)}
}

func (p *Page) ShowDownload(link Link) {
	if p.Links == nil {
		p.Links = make(map[string]Link)
	}
	p.Links[link.Direction] = link
}

func (p *Page) ShowMessage(text string) {
	p.Message = text
}

func (p *Page) ShowError(text string) {
	p.Error = text
}

func (p *Page) ClearError() {
	p.Error = ""
}

func (p *Page) ClearMessage() {
	p.Message = ""
}

// Link returns the visible link for direction, if any.
func (p *Page) Link(direction string) (Link, bool) {
	l, ok := p.Links[direction]
	return l, ok && l.Visible
}

// Outcome is the single result of one relay invocation. Exactly one of
// Link, Message or Err is set.
type Outcome struct {
	Direction string
	Link      *Link
	Message   string
	Err       error
}

// Apply writes the outcome to v. A message from an earlier invocation never
// stays next to a new link or error.
func (o Outcome) Apply(v View) {
	if v == nil {
		return
	}
	switch {
	case o.Err != nil:
		v.ClearMessage()
		v.ShowError(Display(o.Err))
	case o.Link != nil:
		v.ClearMessage()
		v.ShowDownload(*o.Link)
		v.ClearError()
	default:
		v.ShowMessage(o.Message)
		v.ClearError()
	}
}
