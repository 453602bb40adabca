package activityview

import "github.com/jrsteele09/go-activity-signup/view"

var _ Page = Pages(nil)

// Pages draws the same updates on several pages, in order.
type Pages []Page

func (ps Pages) RenderActivities(model view.Model) {
	for _, p := range ps {
		p.RenderActivities(model)
	}
}

func (ps Pages) RenderFailure(notice string) {
	for _, p := range ps {
		p.RenderFailure(notice)
	}
}

func (ps Pages) RenderAuth(banner view.AuthBanner) {
	for _, p := range ps {
		p.RenderAuth(banner)
	}
}

func (ps Pages) ShowMessage(msg view.Message) {
	for _, p := range ps {
		p.ShowMessage(msg)
	}
}

func (ps Pages) HideMessage() {
	for _, p := range ps {
		p.HideMessage()
	}
}

func (ps Pages) ResetForm() {
	for _, p := range ps {
		p.ResetForm()
	}
}
