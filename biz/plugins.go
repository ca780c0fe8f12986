package biz

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/vearne/asyncpcap/capture"
	"github.com/vearne/asyncpcap/config"
	"github.com/vearne/asyncpcap/plugin"
	slog "github.com/vearne/simplelog"
)

// InOutPlugins struct for holding references to plugins
type InOutPlugins struct {
	Inputs  []PluginReader
	Outputs []PluginWriter
	All     []interface{}
}

// NewPlugins wraps the opened source src into the input plugin and builds
// the outputs the settings ask for. The plugins own src from now on.
func NewPlugins(settings *config.AppSettings, src capture.Source, name string) *InOutPlugins {
	plugins := new(InOutPlugins)

	slog.Debug("NewRAWInput, source:%v", name)
	plugins.registerPlugin(plugin.NewRAWInput, src, name, captureOptions(settings))

	// ----------output----------
	if settings.OutputStdout {
		slog.Debug("NewStdOutput")
		plugins.registerPlugin(plugin.NewStdOutput, settings.Codec)
	}
	return plugins
}

func captureOptions(settings *config.AppSettings) []capture.Option {
	var opts []capture.Option
	if settings.QueueCapacity > 0 {
		opts = append(opts, capture.WithQueueCapacity(settings.QueueCapacity))
	}
	if strings.EqualFold(settings.TimestampType, capture.TimestampGo) {
		opts = append(opts, capture.WithTimestampSource(time.Now))
	}
	return opts
}

// Automatically detects type of plugin and initialize it
func (plugins *InOutPlugins) registerPlugin(constructor interface{}, options ...interface{}) {

	vc := reflect.ValueOf(constructor)

	// Pre-processing options to make it work with reflect
	vo := []reflect.Value{}
	for i, oi := range options {
		if oi == nil {
			// a nil slice or interface has no Value of its own
			vo = append(vo, reflect.Zero(vc.Type().In(i)))
			continue
		}
		vo = append(vo, reflect.ValueOf(oi))
	}

	// Calling our constructor with list of given options
	plugin := vc.Call(vo)[0].Interface()

	if r, ok := plugin.(PluginReader); ok {
		plugins.Inputs = append(plugins.Inputs, r)
	}

	if w, ok := plugin.(PluginWriter); ok {
		plugins.Outputs = append(plugins.Outputs, w)
	}
	plugins.All = append(plugins.All, plugin)
}

func (plugins *InOutPlugins) String() string {
	return fmt.Sprintf("#####  len(Inputs):%d, len(Outputs):%d, len(All):%d   #####",
		len(plugins.Inputs), len(plugins.Outputs), len(plugins.All))
}
