// Package backup owns the destination directory of a sync. Every write
// replaces the whole directory content with a single data file.
package backup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultFilename is the name of the single file a backup directory holds.
const DefaultFilename = "data.json"

const (
	tempPrefix = ".tmp-"
	fileMode   = 0o644
)

// Dir is a backup destination directory on a billy filesystem.
type Dir struct {
	fs       billy.Filesystem
	path     string
	filename string
	logger   *zap.Logger
}

type Option func(*Dir)

func WithFilename(name string) Option {
	return func(d *Dir) {
		d.filename = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Dir) {
		d.logger = logger
	}
}

// New returns a Dir for path within fs. The directory need not exist.
func New(fs billy.Filesystem, path string, opts ...Option) *Dir {
	d := &Dir{
		fs:       fs,
		path:     path,
		filename: DefaultFilename,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewOS returns a Dir for a path on the local filesystem. Relative paths
// are resolved against the working directory.
func NewOS(path string, opts ...Option) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	parent, name := filepath.Split(abs)
	if name == "" {
		return nil, errors.Errorf("cannot use %q as a backup directory", path)
	}
	return New(osfs.New(parent), name, opts...), nil
}

// Path returns the location of the data file.
func (d *Dir) Path() string {
	return d.fs.Join(d.fs.Root(), d.path, d.filename)
}

// Write formats value with tab indentation and a trailing newline and
// makes it the only content of the directory.
//
// The formatted data is written to a temporary file inside the directory
// first. Only once that succeeded are the other entries removed and the
// temporary file renamed into place, so a failed write keeps the previous
// backup.
func (d *Dir) Write(value json.RawMessage) (err error) {
	if err := checkFilename(d.filename); err != nil {
		return err
	}

	data, err := Format(value)
	if err != nil {
		return err
	}

	if err := d.ensure(); err != nil {
		return err
	}

	tmpName, err := d.writeTemp(data)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreNotExist(d.fs.Remove(tmpName)))
		}
	}()

	if err := d.clear(tmpName); err != nil {
		return err
	}

	target := d.fs.Join(d.path, d.filename)
	if err := d.fs.Rename(tmpName, target); err != nil {
		return errors.Wrapf(err, "failed to move data into %s", target)
	}

	d.logger.Debug("wrote backup", zap.String("path", target), zap.Int("bytes", len(data)))
	return nil
}

// Format pretty-prints value using tabs and appends a newline.
// Key order and number literals are kept as they are.
func Format(value json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, value, "", "\t"); err != nil {
		return nil, errors.Wrap(err, "invalid JSON value")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (d *Dir) ensure() error {
	info, err := d.fs.Stat(d.path)
	switch {
	case err == nil && !info.IsDir():
		return errors.Errorf("%s is not a directory", d.path)
	case err == nil:
		return nil
	case os.IsNotExist(err):
		d.logger.Debug("creating directory", zap.String("path", d.path))
		return errors.WithMessagef(d.fs.MkdirAll(d.path, 0o755), "failed to create %s", d.path)
	default:
		return errors.WithStack(err)
	}
}

func (d *Dir) writeTemp(data []byte) (_ string, err error) {
	name := d.fs.Join(d.path, tempPrefix+d.filename)
	f, err := d.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary file")
	}

	_, err = f.Write(data)
	err = multierr.Append(err, f.Close())
	if err != nil {
		err = multierr.Append(err, ignoreNotExist(d.fs.Remove(name)))
		return "", errors.Wrapf(err, "failed to write %s", name)
	}
	return name, nil
}

// clear removes every direct child of the directory except keep.
func (d *Dir) clear(keep string) error {
	entries, err := d.fs.ReadDir(d.path)
	if err != nil {
		return errors.Wrapf(err, "failed to list %s", d.path)
	}

	keep = filepath.Base(keep)
	for _, entry := range entries {
		if entry.Name() == keep {
			continue
		}
		name := d.fs.Join(d.path, entry.Name())
		d.logger.Debug("removing", zap.String("path", name))
		if err := util.RemoveAll(d.fs, name); err != nil {
			return errors.Wrapf(err, "failed to remove %s", name)
		}
	}
	return nil
}

// checkFilename rejects names that are not a plain entry of the directory.
// It must run before anything in the directory is touched.
func checkFilename(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return errors.Errorf("invalid backup filename %q", name)
	}
	return nil
}

func ignoreNotExist(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
