package classifier

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads one class label per line. Blank lines are kept so that line
// numbers stay aligned with output indices.
func LoadLabels(filename string) ([]string, error) {
	labels := []string{}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadLabels, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadLabels, err)
	}
	return labels, nil
}

// Label returns labels[class], or "unknown" when the index has no label.
func Label(labels []string, class int) string {
	label := "unknown"
	if class >= 0 && class < len(labels) {
		label = labels[class]
	}
	return label
}
