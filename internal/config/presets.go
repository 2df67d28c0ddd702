package config

// Presets are keyed by algorithm, then preset name. Each entry starts from
// DefaultConfig.
var Presets = map[string]map[string]*Config{
	"bubble": {
		"tiny":     preset("bubble", withValues(5, 3, 8, 1)),
		"reversed": preset("bubble", withValues(9, 8, 7, 6, 5, 4, 3, 2, 1)),
	},
	"insertion": {
		"nearly_sorted": preset("insertion", withValues(1, 2, 4, 3, 5, 6, 8, 7, 9)),
	},
	"quick": {
		"large": preset("quick", withArraySize(64, 18)),
	},
	"merge": {
		"large": preset("merge", withArraySize(64, 18)),
	},
	"bfs": {
		"open":  preset("bfs", withDensity(0)),
		"small": preset("bfs", withGrid(GridConfig{Rows: 3, Cols: 3, Goal: [2]int{2, 2}})),
	},
	"dfs": {
		"maze": preset("dfs", withDensity(0.3)),
	},
	"dijkstra": {
		"dense": preset("dijkstra", withDensity(0.35)),
	},
	"astar": {
		"open":   preset("astar", withDensity(0)),
		"walled": preset("astar", withGrid(walledGrid)),
	},
	"kmeans": {
		"two":   preset("kmeans", withClusters(60, 2, 2)),
		"five":  preset("kmeans", withClusters(100, 5, 5)),
		"wrong": preset("kmeans", withClusters(80, 4, 2)),
	},
	"knn": {
		"coarse": preset("knn", withParams(ParamsConfig{K: 5, CellSize: 50})),
	},
	"regression": {
		"stable":  preset("regression", withParams(ParamsConfig{LearningRate: 1e-6, Iterations: 200})),
		"diverge": preset("regression", withParams(ParamsConfig{LearningRate: 1e-2})),
	},
	"linefit": {
		"steep": preset("linefit", withLine(1.5, -200)),
	},
	"dbscan": {
		"tight": preset("dbscan", withParams(ParamsConfig{Eps: 30, MinPts: 5})),
		"loose": preset("dbscan", withParams(ParamsConfig{Eps: 80, MinPts: 3})),
	},
	"tree": {
		"shallow": preset("tree", withParams(ParamsConfig{MaxDepth: 2})),
	},
}

var walledGrid = GridConfig{
	Rows:  7,
	Cols:  12,
	Start: [2]int{3, 1},
	Goal:  [2]int{3, 10},
	Layout: []string{
		"............",
		"......#.....",
		"......#.....",
		"......#.....",
		"......#.....",
		"......#.....",
		"............",
	},
}

func preset(algorithm string, apply func(*Config)) *Config {
	c := DefaultConfig()
	c.Algorithm = algorithm
	apply(c)
	return c
}

func withValues(v ...int) func(*Config) {
	return func(c *Config) {
		c.Array.Values = v
		c.Array.Size = len(v)
	}
}

func withArraySize(n, speed int) func(*Config) {
	return func(c *Config) {
		c.Array.Size = n
		c.Speed = speed
	}
}

func withDensity(d float64) func(*Config) {
	return func(c *Config) { c.Grid.Density = d }
}

func withGrid(g GridConfig) func(*Config) {
	return func(c *Config) { c.Grid = g }
}

func withClusters(points, clusters, k int) func(*Config) {
	return func(c *Config) {
		c.Points.Count = points
		c.Points.Clusters = clusters
		c.Params.K = k
	}
}

func withParams(p ParamsConfig) func(*Config) {
	return func(c *Config) { c.Params = p }
}

func withLine(slope, intercept float64) func(*Config) {
	return func(c *Config) {
		c.Points.Slope = slope
		c.Points.Intercept = intercept
	}
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(algorithm, name string) *Config {
	algPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	cfg, ok := algPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Array.Values = append([]int(nil), cfg.Array.Values...)
	c.Grid.Layout = append([]string(nil), cfg.Grid.Layout...)
	return &c
}

func ListPresets(algorithm string) []string {
	algPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(algPresets))
	for name := range algPresets {
		names = append(names, name)
	}
	return names
}
