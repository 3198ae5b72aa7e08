package app

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"inkline/pkg/docfile"
)

func (a *App) openDocumentDialog() error {
	path, err := dialog.File().
		Filter("Inkline documents", "inkl").
		Filter("HTML files", "html", "htm").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.openPath(filepath.Clean(path))
}

func (a *App) openPath(path string) error {
	doc, err := docfile.Open(path, docfile.LoadOptions{Password: a.password})
	if errors.Is(err, docfile.ErrPasswordRequired) {
		a.status = "Password required: restart with --password to open " + filepath.Base(path)
		return nil
	}
	if err != nil {
		return err
	}
	a.doc = doc
	a.filePath = path
	a.resetDocument()
	a.status = "Opened " + filepath.Base(path)
	a.log.Info("document opened", zap.String("path", path))
	return nil
}

func (a *App) saveDocument(saveAs bool) error {
	path := a.filePath
	if saveAs || path == "" {
		p, err := dialog.File().
			Filter("Inkline documents", "inkl").
			Filter("HTML files", "html", "htm").
			Title("Save document").
			Save()
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		path = p
	}
	if path == "" {
		return errors.New("no file selected")
	}

	a.doc.Root = a.surface.Root()
	a.doc.Metadata.BaseStyle = a.surface.BaseStyle().String()
	a.doc.Metadata.ModifiedUnix = time.Now().Unix()
	opts := docfile.SaveOptions{
		Compression: a.compress,
		Encryption:  docfile.EncryptionOptions{Enabled: a.password != "", Password: a.password},
	}
	if err := docfile.Store(path, a.doc, opts); err != nil {
		return err
	}
	a.filePath = path
	a.status = "Saved " + filepath.Base(path)
	a.log.Info("document saved", zap.String("path", path), zap.Bool("sealed", opts.Encryption.Enabled))
	return nil
}
