package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrUnsafeKey is returned for object keys that would land outside the
// download directory.
var ErrUnsafeKey = errors.New("object key escapes download directory")

// LocalPath maps an object key onto a file under dir.
func LocalPath(dir, key string) (string, error) {
	dest := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(key, "/")))
	rel, err := filepath.Rel(dir, dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", key, ErrUnsafeKey)
	}
	return dest, nil
}

// FetchCSVs downloads every .csv object under prefix into dir and returns
// the local paths in key order. Keys that would escape dir are skipped.
func FetchCSVs(ctx context.Context, store ObjectStorage, prefix, dir string) ([]string, error) {
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })

	paths := make([]string, 0, len(objects))
	for _, obj := range objects {
		if !strings.EqualFold(path.Ext(obj.Key), ".csv") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		dest, err := LocalPath(dir, obj.Key)
		if err != nil {
			log.Warn().Err(err).Str("key", obj.Key).Msg("skipping sales export")
			continue
		}
		if err := store.DownloadObject(ctx, obj.Key, dest); err != nil {
			return paths, fmt.Errorf("fetch %s: %w", obj.Key, err)
		}
		log.Info().Str("key", obj.Key).Int64("size", obj.Size).Str("path", dest).Msg("fetched sales export")
		paths = append(paths, dest)
	}
	return paths, nil
}
