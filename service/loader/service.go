package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/ossim/internal/yml"
	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/model/scenario"
	"gopkg.in/yaml.v3"
)

// Service loads scenarios and process tables.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a loader; relative URLs are resolved against baseURL and
// options are passed to every download (e.g. an *embed.FS).
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Download returns the content of URL.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	URL = s.resolve(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	return data, nil
}

// LoadTable loads a process table.
func (s *Service) LoadTable(ctx context.Context, URL string) (process.Records, error) {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	records, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", URL, err)
	}
	return records, nil
}

// LoadScenario loads a scenario YAML document. When config is not nil, the
// optional config section is decoded into it.
func (s *Service) LoadScenario(ctx context.Context, URL string, config interface{}) (*scenario.Scenario, error) {
	ext := filepath.Ext(URL)
	if ext == "" {
		URL += ".yaml"
	}
	data, err := s.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	return s.DecodeScenario(ctx, s.resolve(URL), data, config)
}

// DecodeScenario decodes a scenario document loaded from URL.
func (s *Service) DecodeScenario(ctx context.Context, URL string, data []byte, config interface{}) (*scenario.Scenario, error) {
	data = []byte(expandEnv(string(data), os.Getenv))
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", URL, err)
	}
	ret := &scenario.Scenario{Name: nameFromURL(URL)}
	if URL != "" {
		ret.Source = &scenario.Source{URL: URL}
	}
	root := (*yml.Node)(&node).Root()
	if root.Kind == 0 {
		return ret, nil
	}
	if err := s.parseScenario(ctx, URL, root, ret, config); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", URL, err)
	}
	if issues := ret.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return ret, nil
}

func (s *Service) parseScenario(ctx context.Context, URL string, root *yml.Node, ret *scenario.Scenario, config interface{}) error {
	return root.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch strings.ToLower(key) {
		case "name":
			ret.Name = value.Value
		case "processes":
			ret.Processes, err = parseProcesses(value)
		case "table":
			ret.Processes, err = ParseTable([]byte(value.Value))
		case "tableurl":
			ret.Processes, err = s.LoadTable(ctx, relativeTo(URL, value.Value))
		case "quantum":
			ret.Scheduling.Quantum, err = value.Int()
		case "policies":
			ret.Scheduling.Policies, err = value.Strings()
		case "scheduling":
			err = parseScheduling(value, &ret.Scheduling)
		case "memory":
			err = parseMemory(value, &ret.Memory)
		case "paging":
			err = parsePaging(value, &ret.Paging)
		case "expect":
			ret.Expect = relativeTo(URL, value.Value)
		case "config":
			if config != nil {
				err = value.Decode(config)
			}
		default:
			return fmt.Errorf("line %d: unsupported key %q", value.Line, key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func parseProcesses(node *yml.Node) (process.Records, error) {
	if node.Kind == yaml.ScalarNode {
		return ParseTable([]byte(node.Value))
	}
	var records process.Records
	err := node.Items(func(_ int, item *yml.Node) error {
		var record process.Record
		if err := item.Decode(&record); err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		records = append(records, record)
		return nil
	})
	return records, err
}

func parseScheduling(node *yml.Node, ret *scenario.Scheduling) error {
	return node.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch strings.ToLower(key) {
		case "policies":
			ret.Policies, err = value.Strings()
		case "quantum":
			ret.Quantum, err = value.Int()
		case "priorityorder":
			ret.PriorityOrder = value.Value
		case "keepzerolength":
			var keep bool
			if keep, err = value.Bool(); err == nil {
				ret.KeepZeroLength = &keep
			}
		default:
			err = fmt.Errorf("line %d: unsupported key %q", value.Line, key)
		}
		return err
	})
}

func parseMemory(node *yml.Node, ret *scenario.Memory) error {
	return node.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch strings.ToLower(key) {
		case "strategies":
			ret.Strategies, err = value.Strings()
		case "holes":
			ret.Holes, err = parseHoles(value)
		case "generate":
			generator := memory.DefaultGenerator()
			if err = value.Decode(&generator); err == nil {
				ret.Generate = &generator
			}
		case "requests":
			ret.Requests, err = parseRequests(value)
		case "fromprocesses":
			ret.FromProcesses, err = value.Bool()
		default:
			err = fmt.Errorf("line %d: unsupported key %q", value.Line, key)
		}
		return err
	})
}

// parseHoles accepts [{start: 0, size: 100}] or [[0, 100]].
func parseHoles(node *yml.Node) (memory.FreeList, error) {
	var holes memory.FreeList
	err := node.Items(func(_ int, item *yml.Node) error {
		if item.Kind == yaml.SequenceNode {
			pair, err := item.Ints()
			if err != nil {
				return err
			}
			if len(pair) != 2 {
				return fmt.Errorf("line %d: expected [start, size]", item.Line)
			}
			holes = append(holes, memory.Block{Start: pair[0], Size: pair[1]})
			return nil
		}
		var hole memory.Block
		if err := item.Decode(&hole); err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		holes = append(holes, hole)
		return nil
	})
	return holes, err
}

// parseRequests accepts [{pid: 1, size: 100}] or an ordered {1: 100} mapping.
func parseRequests(node *yml.Node) ([]memory.Request, error) {
	var requests []memory.Request
	if node.Kind == yaml.MappingNode {
		err := node.Pairs(func(key string, value *yml.Node) error {
			pid, err := (&yml.Node{Kind: yaml.ScalarNode, Value: key, Line: value.Line}).Int()
			if err != nil {
				return err
			}
			size, err := value.Int()
			if err != nil {
				return err
			}
			requests = append(requests, memory.Request{PID: pid, Size: size})
			return nil
		})
		return requests, err
	}
	err := node.Items(func(_ int, item *yml.Node) error {
		var request memory.Request
		if err := item.Decode(&request); err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		requests = append(requests, request)
		return nil
	})
	return requests, err
}

func parsePaging(node *yml.Node, ret *scenario.Paging) error {
	return node.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch strings.ToLower(key) {
		case "policies":
			ret.Policies, err = value.Strings()
		case "references":
			ret.References, err = value.Ints()
		case "frames":
			ret.Frames, err = value.Int()
		default:
			err = fmt.Errorf("line %d: unsupported key %q", value.Line, key)
		}
		return err
	})
}

func (s *Service) resolve(URL string) string {
	if s.baseURL != "" && url.IsRelative(URL) {
		return url.Join(s.baseURL, URL)
	}
	return URL
}

// relativeTo resolves location against the directory of parentURL.
func relativeTo(parentURL, location string) string {
	if parentURL == "" || location == "" || !url.IsRelative(location) {
		return location
	}
	parent, _ := url.Split(parentURL, file.Scheme)
	return url.Join(parent, location)
}

func nameFromURL(URL string) string {
	if URL == "" {
		return ""
	}
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
