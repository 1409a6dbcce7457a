package sbatch

import "github.com/NordicHPC/sonar/util/formats/newfmt"

// One decoded element of a TRES-valued directive, eg gres/gpu=4 in --tres-per-node=gres/gpu=4.
// Values with a K/M/G suffix are scaled to bytes.

type Resource struct {
	Directive string `json:"directive"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
}

// MT: Constant after initialization; immutable
var tresDirectives = []string{
	"tres-per-job",
	"tres-per-node",
	"tres-per-socket",
	"tres-per-task",
}

// Decode the TRES-valued directives, in directive-name order and in list order within each.  Pairs
// without `=` are returned separately.  The result is never nil.
func Resources(d Directives) (resources []Resource, dropped []string) {
	resources = make([]Resource, 0)
	for _, name := range tresDirectives {
		s, ok := d[name].(string)
		if !ok {
			continue
		}
		tres, bad := newfmt.DecodeSlurmTRES(s)
		for _, t := range tres {
			resources = append(resources, Resource{name, t.Key, t.Value})
		}
		dropped = append(dropped, bad...)
	}
	return
}
