package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/google/uuid"
)

var (
	uploadDir   string
	uploadDirMu sync.RWMutex
)

// SetUploadDir change le répertoire de stockage des documents
func SetUploadDir(dir string) {
	uploadDirMu.Lock()
	defer uploadDirMu.Unlock()
	uploadDir = dir
}

func uploadRoot() string {
	uploadDirMu.RLock()
	dir := uploadDir
	uploadDirMu.RUnlock()
	if dir == "" {
		dir = config.LoadConfig().UploadDir
	}
	return dir
}

// storedPath chemin disque d'un fichier stocké
func storedPath(storedName string) string {
	return filepath.Join(uploadRoot(), filepath.Base(storedName))
}

// saveFile écrit le contenu sous un nom unique et renvoie ce nom et la taille écrite
func saveFile(r io.Reader, originalName string) (string, int64, error) {
	root := uploadRoot()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", 0, fmt.Errorf("création du répertoire %s: %w", root, err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	f, err := os.OpenFile(filepath.Join(root, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("création du fichier: %w", err)
	}

	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(filepath.Join(root, name))
		if copyErr != nil {
			return "", 0, fmt.Errorf("écriture du fichier: %w", copyErr)
		}
		return "", 0, fmt.Errorf("écriture du fichier: %w", closeErr)
	}
	return name, size, nil
}

// copyFile duplique un fichier stocké sous un nouveau nom
func copyFile(storedName string) (string, error) {
	src, err := os.Open(storedPath(storedName))
	if err != nil {
		return "", fmt.Errorf("ouverture de %s: %w", storedName, err)
	}
	defer src.Close()

	name, _, err := saveFile(src, storedName)
	return name, err
}

// removeFiles supprime des fichiers stockés, les erreurs sont seulement journalisées
func removeFiles(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := os.Remove(storedPath(name)); err != nil && !os.IsNotExist(err) {
			utils.Logger.Warn().Err(err).Str("file", name).Msg("suppression du fichier échouée")
		}
	}
}
