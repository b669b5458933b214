package simulation

import (
	"os"
	"path/filepath"
)

// GetDecks recursively finds every decklist file under dir, for
// cmd/selfplay's "point me at a directory of decklists" mode.
func GetDecks(dir string) ([]string, error) {
	var fileList []string
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if file.IsDir() {
			subDirFiles, err := GetDecks(filepath.Join(dir, file.Name()))
			if err != nil {
				return nil, err
			}
			fileList = append(fileList, subDirFiles...)
			continue
		}
		fileList = append(fileList, filepath.Join(dir, file.Name()))
	}
	return fileList, nil
}
