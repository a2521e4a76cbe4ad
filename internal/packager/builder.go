// Package packager assembles generated assessment items and their
// manifest into an importable QTI content package.
package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"aiken2qti/internal/aiken"
	"aiken2qti/internal/qti"
)

// PackageError wraps an I/O failure while staging, writing, or
// finalizing the archive. The output path never holds a partial
// archive when Build returns one of these.
type PackageError struct {
	Op  string
	Err error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("build package: %s: %v", e.Op, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// Options configures one conversion run.
type Options struct {
	// Title and Language feed the manifest metadata.
	Title    string
	Language string
	// Prompt and Shuffle are passed through to every item.
	Prompt  string
	Shuffle bool
	Logger  *log.Logger
}

// Builder writes QTI packages. One Builder serves one Build call at a
// time; concurrent conversions need separate Builders.
type Builder struct {
	opts Options

	// newManifestID is swappable in tests.
	newManifestID func() string
}

// New returns a Builder with the given options.
func New(opts Options) *Builder {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Builder{
		opts: opts,
		newManifestID: func() string {
			return "MANIFEST-" + strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

// itemID returns the archive-wide identifier of the i-th question
// (zero-based). It is assigned here, not taken from the Question, so
// uniqueness holds even if parser identifiers ever collide. The same
// identifier names the manifest resource and the item document root.
func itemID(i int) string {
	return fmt.Sprintf("ITEM_%d", i+1)
}

// itemFilename returns the archive entry name of the i-th question.
func itemFilename(i int) string {
	return fmt.Sprintf("item_%d.xml", i+1)
}

// Build generates one item document per question and writes the
// archive to outputPath. The archive is staged as a temporary file in
// the destination directory and renamed into place only once complete,
// so a failure leaves nothing behind at outputPath.
func (b *Builder) Build(questions []aiken.Question, outputPath string) error {
	manifestID := b.newManifestID()
	b.opts.Logger.Debug("building package", "questions", len(questions), "manifest", manifestID)

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".aiken2qti-*.zip")
	if err != nil {
		return &PackageError{Op: "create staging file", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	resources := make([]qti.Resource, len(questions))
	for i := range questions {
		resources[i] = qti.Resource{Identifier: itemID(i), Href: itemFilename(i)}
	}

	zw := zip.NewWriter(tmp)

	// Manifest first, then items in input order. Some LMS import tools
	// present items in archive order.
	w, err := zw.Create("imsmanifest.xml")
	if err != nil {
		return &PackageError{Op: "add imsmanifest.xml", Err: err}
	}
	if _, err := w.Write(qti.GenerateManifest(manifestID, b.opts.Title, b.opts.Language, resources)); err != nil {
		return &PackageError{Op: "write imsmanifest.xml", Err: err}
	}

	itemOpts := qti.ItemOptions{Prompt: b.opts.Prompt, Shuffle: b.opts.Shuffle}
	for i, q := range questions {
		name := itemFilename(i)
		w, err := zw.Create(name)
		if err != nil {
			return &PackageError{Op: "add " + name, Err: err}
		}
		if _, err := w.Write(qti.GenerateItem(q, itemID(i), itemOpts)); err != nil {
			return &PackageError{Op: "write " + name, Err: err}
		}
		b.opts.Logger.Debug("added item", "file", name, "question", q.Identifier)
	}

	if err := zw.Close(); err != nil {
		return &PackageError{Op: "finalize archive", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PackageError{Op: "close staging file", Err: err}
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return &PackageError{Op: "move archive into place", Err: err}
	}
	committed = true

	b.opts.Logger.Info("package written", "path", outputPath, "items", len(questions))
	return nil
}
