package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const (
	projectNameMaxLength = 32
	podTypeMaxLength     = 16
)

// Project names and pod types become name segments separated by "-", so they
// must be DNS-1123 labels; a trailing hyphen would make prefix matching
// ambiguous across segments.
func validateLabel(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s name exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateProjectName checks a project name for use in pod names.
func ValidateProjectName(name string) error {
	return validateLabel(name, projectNameMaxLength, "project")
}

// ValidatePodType checks a pod type for use in pod names.
func ValidatePodType(name string) error {
	return validateLabel(name, podTypeMaxLength, "pod type")
}
