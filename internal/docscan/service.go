package docscan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/audix/audix/internal/classification"
	"github.com/audix/audix/internal/extraction"
	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
)

const gitDirectoryNameConstant = ".git"

// Documentation file extensions scanned by default.
var documentationFileExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".rst":      {},
	".txt":      {},
}

// Options filters the scan.
type Options struct {
	// Platforms restricts results to the listed platforms; empty means all.
	Platforms []model.Platform
	// SkipNetwork drops commands classified as network risk.
	SkipNetwork bool
}

// Service extracts and classifies documentation commands across a repository.
type Service struct {
	extractor  *extraction.Extractor
	classifier *classification.Classifier
}

// NewService constructs a documentation scanner over the shared registry.
func NewService(patternRegistry *registry.Registry) *Service {
	return &Service{
		extractor:  extraction.NewExtractor(patternRegistry),
		classifier: classification.NewClassifier(patternRegistry),
	}
}

// Scan walks repositoryRoot for documentation files and returns every
// extracted command, classified and ordered by file path then line number.
// Files are processed concurrently; accumulation is mutex guarded.
func (service *Service) Scan(executionContext context.Context, repositoryRoot string, options Options) ([]model.Command, error) {
	documentationFiles, discoveryError := discoverDocumentationFiles(repositoryRoot)
	if discoveryError != nil {
		return nil, discoveryError
	}

	var accumulationMutex sync.Mutex
	var allCommands []model.Command
	var waitGroup sync.WaitGroup

	for _, documentationFile := range documentationFiles {
		waitGroup.Add(1)
		go func(filePath string) {
			defer waitGroup.Done()
			if executionContext.Err() != nil {
				return
			}

			fileContent, readError := os.ReadFile(filePath)
			if readError != nil {
				// Unreadable documentation is skipped, not fatal.
				return
			}

			relativePath, relativeError := filepath.Rel(repositoryRoot, filePath)
			if relativeError != nil {
				relativePath = filePath
			}
			extracted := service.extractor.Extract(string(fileContent), filepath.ToSlash(relativePath))
			classified := service.classifier.ClassifyAll(extracted)

			accumulationMutex.Lock()
			allCommands = append(allCommands, classified...)
			accumulationMutex.Unlock()
		}(documentationFile)
	}
	waitGroup.Wait()

	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	sort.SliceStable(allCommands, func(firstIndex, secondIndex int) bool {
		if allCommands[firstIndex].SourceFile != allCommands[secondIndex].SourceFile {
			return allCommands[firstIndex].SourceFile < allCommands[secondIndex].SourceFile
		}
		return allCommands[firstIndex].LineNumber < allCommands[secondIndex].LineNumber
	})

	return applyFilters(allCommands, options), nil
}

// Summarize builds the platform by risk summary for the commands.
func Summarize(commands []model.Command) model.Summary {
	summary := model.Summary{}
	for _, command := range commands {
		summary.Add(command.Platform, command.Risk)
	}
	return summary
}

func applyFilters(commands []model.Command, options Options) []model.Command {
	if len(options.Platforms) == 0 && !options.SkipNetwork {
		return commands
	}

	allowedPlatforms := map[model.Platform]struct{}{}
	for _, platform := range options.Platforms {
		allowedPlatforms[platform] = struct{}{}
	}

	filtered := make([]model.Command, 0, len(commands))
	for _, command := range commands {
		if len(allowedPlatforms) > 0 {
			if _, allowed := allowedPlatforms[command.Platform]; !allowed {
				continue
			}
		}
		if options.SkipNetwork && command.Risk == model.RiskNetwork {
			continue
		}
		filtered = append(filtered, command)
	}
	return filtered
}

func discoverDocumentationFiles(repositoryRoot string) ([]string, error) {
	var documentationFiles []string

	walkError := filepath.WalkDir(repositoryRoot, func(candidatePath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return nil
		}
		if directoryEntry.IsDir() {
			if directoryEntry.Name() == gitDirectoryNameConstant {
				return filepath.SkipDir
			}
			return nil
		}
		extension := strings.ToLower(filepath.Ext(candidatePath))
		if _, isDocumentation := documentationFileExtensions[extension]; isDocumentation {
			documentationFiles = append(documentationFiles, candidatePath)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return documentationFiles, nil
}
