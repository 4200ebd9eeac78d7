package domain

import "sync"

// ImageAsset is a validated, normalized lesion image owned by exactly
// one request. The backing temp file lives until Close, which the
// orchestrator defers on every path.
type ImageAsset struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
	TempPath string

	cleanup  func() error
	once     sync.Once
	closeErr error
}

func NewImageAsset(data []byte, mimeType string, width, height int, tempPath string, cleanup func() error) *ImageAsset {
	return &ImageAsset{
		Data:     data,
		MimeType: mimeType,
		Width:    width,
		Height:   height,
		TempPath: tempPath,
		cleanup:  cleanup,
	}
}

// Close releases the temp file. Safe to call more than once.
func (a *ImageAsset) Close() error {
	if a == nil {
		return nil
	}
	a.once.Do(func() {
		if a.cleanup != nil {
			a.closeErr = a.cleanup()
		}
	})
	return a.closeErr
}
