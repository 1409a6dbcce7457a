package filesys

import (
	"os"
	"path/filepath"
)

// Names of the subdirectories of `dir`, sorted by name.  Symlinks to directories are not followed.
func ListDirs(dir string) ([]string, error) {
	return listEntries(dir, func(e os.DirEntry) bool { return e.IsDir() })
}

// Names of the regular files in `dir`, sorted by name.
func ListFiles(dir string) ([]string, error) {
	return listEntries(dir, func(e os.DirEntry) bool { return e.Type().IsRegular() })
}

func listEntries(dir string, keep func(os.DirEntry) bool) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if keep(e) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Copy `from` to `to`, creating the directory of `to` and `to` itself as necessary with mode 0644.
// The copy is byte-for-byte.
func CopyFile(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}
	return os.WriteFile(to, data, 0644)
}

// Write `data` to `filename` via a temp file in the same directory and a rename, so that readers
// never see a partially written file.  The directory is created if necessary.
func WriteFileAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".hplcollect-*")
	if err != nil {
		return err
	}
	// NOTE, if there are error exits before the rename then they must remove the temp file.
	tmpname := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpname, 0644)
	}
	if err == nil {
		err = os.Rename(tmpname, filename)
	}
	if err != nil {
		os.Remove(tmpname)
	}
	return err
}

type TestFile struct {
	Dir  string
	Name string
	Data []byte
}

// Create subdirectories of `root` and files in those directories as directed.  Typically `root` is
// a t.TempDir().
func PopulateTestData(root string, data ...TestFile) error {
	for _, d := range data {
		err := os.MkdirAll(filepath.Join(root, d.Dir), 0755)
		if err != nil {
			return err
		}
		err = os.WriteFile(filepath.Join(root, d.Dir, d.Name), d.Data, 0644)
		if err != nil {
			return err
		}
	}
	return nil
}
