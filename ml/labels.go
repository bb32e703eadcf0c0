package ml

import "fmt"

const UnclassifiableLabel = "unclassifiable"

var classificationLabels = map[int]string{
	1: "building windows (float processed)",
	2: "building windows (non-float processed)",
	3: "vehicle windows (float processed)",
	4: "vehicle windows (non-float processed)",
	5: "containers",
	6: "tableware",
	7: "headlamps",
}

// LabelFor returns the display string for a class id. Ids outside 1..7 are
// not an error; they resolve to UnclassifiableLabel.
func LabelFor(classID int) string {
	name, ok := classificationLabels[classID]
	if !ok {
		return UnclassifiableLabel
	}
	return fmt.Sprintf("%d: %s", classID, name)
}

// KnownLabels lists every display string LabelFor can return for a known id, in id order.
func KnownLabels() []string {
	labels := make([]string, 0, len(classificationLabels))
	for id := 1; id <= len(classificationLabels); id++ {
		labels = append(labels, LabelFor(id))
	}
	return labels
}
