package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/polylab/polycrit/types"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title         string    `yaml:"Title"`
	Objective     string    `yaml:"Objective"` // named objective from the catalog
	Center        []float64 `yaml:"Center"`    // empty means the catalog default box
	HalfWidths    []float64 `yaml:"HalfWidths"`
	StartDegree   int       `yaml:"StartDegree"`
	MaxDegree     int       `yaml:"MaxDegree"` // 0 means no auto-increase
	Tolerance     float64   `yaml:"Tolerance"`
	SampleCount   int       `yaml:"SampleCount"` // 0 picks a count from the degree ceiling
	Seed          int64     `yaml:"Seed"`
	GradFree      bool      `yaml:"GradFree"`
	MaxIterations int       `yaml:"MaxIterations"`
	MergeRadius   float64   `yaml:"MergeRadius"`
	OutputDir     string    `yaml:"OutputDir"`
	OutputBase    string    `yaml:"OutputBase"`
}

func (ip *InputParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return types.ConfigurationErrorf("parsing input parameters: %v", err)
	}
	return nil
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Objective\n", ip.Objective)
	if len(ip.Center) != 0 {
		fmt.Printf("%v\t= Center\n", ip.Center)
		fmt.Printf("%v\t= HalfWidths\n", ip.HalfWidths)
	}
	fmt.Printf("[%d]\t\t\t= Start Degree\n", ip.StartDegree)
	fmt.Printf("[%d]\t\t\t= Max Degree\n", ip.MaxDegree)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("[%d]\t\t\t= Sample Count\n", ip.SampleCount)
	fmt.Printf("[%d]\t\t\t= Seed\n", ip.Seed)
}

// Validate fills defaults and rejects decks the pipeline cannot run.
func (ip *InputParameters) Validate() error {
	if len(ip.Objective) == 0 {
		return types.ConfigurationErrorf("no Objective named in input parameters")
	}
	if ip.StartDegree == 0 {
		ip.StartDegree = 2
	}
	if ip.StartDegree < 1 {
		return types.ConfigurationErrorf("StartDegree %d, must be >= 1", ip.StartDegree)
	}
	if ip.MaxDegree == 0 {
		ip.MaxDegree = ip.StartDegree
	}
	if ip.MaxDegree < ip.StartDegree {
		return types.ConfigurationErrorf("MaxDegree %d below StartDegree %d",
			ip.MaxDegree, ip.StartDegree)
	}
	if ip.Tolerance == 0 {
		ip.Tolerance = 1.e-6
	}
	if !(ip.Tolerance > 0) {
		return types.ConfigurationErrorf("Tolerance %v, must be > 0", ip.Tolerance)
	}
	if len(ip.Center) != len(ip.HalfWidths) {
		return types.ConfigurationErrorf("Center has dimension %d, HalfWidths %d",
			len(ip.Center), len(ip.HalfWidths))
	}
	if len(ip.OutputBase) == 0 {
		ip.OutputBase = "critical_points"
	}
	return nil
}

// Domain builds the run box, falling back to def when the deck leaves
// the box unset.
func (ip *InputParameters) Domain(def types.Domain) (types.Domain, error) {
	if len(ip.Center) == 0 {
		return def, nil
	}
	return types.NewDomain(ip.Center, ip.HalfWidths)
}
