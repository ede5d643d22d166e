package fileutil

import "os"

// renameChecked is the portable fallback: check-then-rename. It is only safe
// under the single-writer model the catalog assumes.
func renameChecked(oldpath, newpath string) error {
	exists, err := Exists(newpath)
	if err != nil {
		return err
	}
	if exists {
		return os.ErrExist
	}
	return os.Rename(oldpath, newpath)
}
