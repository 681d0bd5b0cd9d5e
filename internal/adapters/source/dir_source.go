package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// partNumberRegexp находит номер части в имени файла: message_11.json -> 11.
var partNumberRegexp = regexp.MustCompile(`(\d+)\.json$`)

// DirSource реализует ChatSource для дерева экспорта на диске:
// <root>/<chatID>/message_N.json.
type DirSource struct {
	root string
}

// NewDirSource создает новый экземпляр DirSource.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

var _ ports.ChatSource = (*DirSource)(nil)

// Root возвращает корневую директорию экспорта.
func (s *DirSource) Root() string {
	return s.root
}

// ChatDir возвращает путь к директории чата, отклоняя идентификаторы,
// которые выходят за пределы корня.
func (s *DirSource) ChatDir(chatID string) (string, error) {
	if chatID == "" || chatID == "." || chatID == ".." || strings.ContainsAny(chatID, `/\`) {
		return "", &domain.NotFoundError{Path: filepath.Join(s.root, chatID), Reason: "invalid chat identifier"}
	}
	return filepath.Join(s.root, chatID), nil
}

// Files возвращает пути к файлам чата в порядке частей экспорта.
func (s *DirSource) Files(chatID string) ([]string, error) {
	dir, err := s.ChatDir(chatID)
	if err != nil {
		return nil, err
	}
	return ListExportFiles(dir)
}

// Fetch читает все файлы чата ровно один раз, в порядке частей.
func (s *DirSource) Fetch(ctx context.Context, chatID string) ([]domain.ExportFile, error) {
	paths, err := s.Files(chatID)
	if err != nil {
		return nil, err
	}

	files := make([]domain.ExportFile, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := NewFileSource(path).Fetch()
		if err != nil {
			return nil, err
		}
		files = append(files, domain.ExportFile{Name: filepath.Base(path), Data: data})
	}

	return files, nil
}

// ListExportFiles возвращает JSON-файлы директории чата.
// Нумерованные части сортируются по номеру (1, 2, ..., 11), а не по алфавиту;
// остальные файлы идут после них в алфавитном порядке.
func ListExportFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Path: dir}
		}
		return nil, xerrors.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, &domain.NotFoundError{Path: dir, Reason: "not a directory"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return nil, &domain.NotFoundError{Path: dir, Reason: "no export files"}
	}

	SortParts(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// SortParts упорядочивает имена файлов по номеру части.
func SortParts(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ni, okI := partNumber(names[i])
		nj, okJ := partNumber(names[j])
		switch {
		case okI && okJ && ni != nj:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return names[i] < names[j]
		}
	})
}

func partNumber(name string) (int, bool) {
	m := partNumberRegexp.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
