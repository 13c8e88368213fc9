package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/audix/audix/internal/registry"
)

const (
	missingFilesDetailTemplateConstant   = "missing required security files: %s"
	malformedFilesDetailTemplateConstant = "malformed security files: %s"
	filesDetailJoinSeparatorConstant     = ", "
	detailSectionSeparatorConstant       = "; "

	yamlExtensionConstant        = ".yaml"
	yamlShortExtensionConstant   = ".yml"
	securityFileMaximumSizeBytes = 1 << 20
)

// SecurityFilesCheck verifies that every required security file exists under
// the repository root. The issue count is the number of missing files; YAML
// files that exist but do not parse are surfaced in the detail without
// affecting the verdict.
type SecurityFilesCheck struct {
	repositoryRoot string
	registry       *registry.Registry
}

// NewSecurityFilesCheck constructs the required-file presence check.
func NewSecurityFilesCheck(repositoryRoot string, patternRegistry *registry.Registry) *SecurityFilesCheck {
	return &SecurityFilesCheck{repositoryRoot: repositoryRoot, registry: patternRegistry}
}

// Name implements Check.
func (check *SecurityFilesCheck) Name() string { return CheckNameSecurityFiles }

// Weight implements Check.
func (check *SecurityFilesCheck) Weight() float64 { return WeightSecurityFiles }

// Run implements Check.
func (check *SecurityFilesCheck) Run(executionContext context.Context) CheckResult {
	var missingFiles []string
	var malformedFiles []string
	for _, requiredFile := range check.registry.RequiredSecurityFiles() {
		if executionContext.Err() != nil {
			break
		}
		candidatePath := filepath.Join(check.repositoryRoot, filepath.FromSlash(requiredFile))
		if _, statError := os.Stat(candidatePath); statError != nil {
			missingFiles = append(missingFiles, requiredFile)
			continue
		}
		if !isYAMLFile(requiredFile) {
			continue
		}
		if !yamlFileParses(candidatePath) {
			malformedFiles = append(malformedFiles, requiredFile)
		}
	}

	result := CheckResult{
		CheckName:  check.Name(),
		Weight:     check.Weight(),
		Passed:     len(missingFiles) == 0,
		IssueCount: len(missingFiles),
	}

	var detailSections []string
	if len(missingFiles) > 0 {
		detailSections = append(detailSections, fmt.Sprintf(missingFilesDetailTemplateConstant, strings.Join(missingFiles, filesDetailJoinSeparatorConstant)))
	}
	if len(malformedFiles) > 0 {
		detailSections = append(detailSections, fmt.Sprintf(malformedFilesDetailTemplateConstant, strings.Join(malformedFiles, filesDetailJoinSeparatorConstant)))
	}
	if len(detailSections) > 0 {
		result.Detail = strings.Join(detailSections, detailSectionSeparatorConstant)
	}
	return result
}

func isYAMLFile(filePath string) bool {
	extension := strings.ToLower(filepath.Ext(filePath))
	return extension == yamlExtensionConstant || extension == yamlShortExtensionConstant
}

func yamlFileParses(filePath string) bool {
	fileInformation, statError := os.Stat(filePath)
	if statError != nil || fileInformation.Size() > securityFileMaximumSizeBytes {
		return false
	}
	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return false
	}
	var parsedDocument any
	return yaml.Unmarshal(fileContent, &parsedDocument) == nil
}
