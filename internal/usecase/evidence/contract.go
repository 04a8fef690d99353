package evidence

import "github.com/kailas-cloud/riskdesk/internal/repository/refdoc"

// Documents provides the reference texts searched for evidence.
type Documents interface {
	Guidelines() refdoc.Text
	Policy() refdoc.Text
}
