package promotion

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads a promotion seed file. Seed files are gzipped JSON lines, one
// promotion per line.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Promotion, error)
}

// fileLoader implements Loader for seed files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based promotion loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promotion-loader").Logger(),
	}
}

// Load reads a gzipped seed file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Promotion, error) {
	l.logger.Info().Str("file", path).Msg("loading promotion seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open promotion seed file")
		return nil, fmt.Errorf("failed to open promotion seed file %s: %w", path, err)
	}
	defer file.Close()

	promotions, err := decodeSeed(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode promotion seed file")
		return nil, fmt.Errorf("failed to decode promotion seed file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("promotions_loaded", len(promotions)).
		Msg("promotion seed file loaded successfully")

	return promotions, nil
}

// decodeSeed reads gzipped JSON lines. Blank lines are skipped and codes are
// normalised; a malformed line fails the whole file.
func decodeSeed(ctx context.Context, r io.Reader) ([]model.Promotion, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var promotions []model.Promotion
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Promotion
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		p.Code = NormalizeCode(p.Code)
		if p.Code == "" {
			return nil, fmt.Errorf("line %d: promotion code is required", lineNo)
		}
		if !p.DiscountType.Valid() {
			return nil, fmt.Errorf("line %d: unknown discount type %q", lineNo, p.DiscountType)
		}
		if p.DiscountValue < 0 {
			return nil, fmt.Errorf("line %d: discount value must not be negative", lineNo)
		}
		if p.DiscountType == model.DiscountTypePercentage && p.DiscountValue > 100 {
			return nil, fmt.Errorf("line %d: percentage discount %v exceeds 100", lineNo, p.DiscountValue)
		}

		promotions = append(promotions, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed: %w", err)
	}

	return promotions, nil
}

// LoadAll loads every path concurrently and returns the promotions in path
// order. Any failed path fails the whole load.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) ([]model.Promotion, error) {
	type loadResult struct {
		index      int
		promotions []model.Promotion
		err        error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			promotions, err := loader.Load(ctx, path)
			resultChan <- loadResult{
				index:      index,
				promotions: promotions,
				err:        err,
			}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	var all []model.Promotion
	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", paths[i]).
				Msg("failed to load promotion seed file")
			return nil, fmt.Errorf("failed to load promotion seed file %s: %w", paths[i], result.err)
		}
		all = append(all, result.promotions...)
	}

	logger.Info().
		Int("file_count", len(paths)).
		Int("total_promotions", len(all)).
		Msg("promotion seed files loaded")

	return all, nil
}
