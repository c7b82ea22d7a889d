// Package clipboard places the rendered packaging report on the system
// clipboard when a run asks for it.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier places textual content on the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service backs Copier with github.com/atotto/clipboard, which picks the
// platform mechanism (pbcopy, xclip, or the Windows API) at runtime.
type Service struct{}

// NewService returns a ready clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy replaces the current clipboard content with text.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
