// internal/browser/jsexec/runtime.go
package jsexec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageutils/internal/browser/dom"
	"github.com/xkilldash9x/pageutils/internal/browser/jsbind"
	"github.com/xkilldash9x/pageutils/internal/clientutils"
)

// DefaultTimeout is the fallback execution timeout if the context has no
// deadline and the configuration sets none.
const DefaultTimeout = 30 * time.Second

// Options configures a Runtime.
type Options struct {
	// Timeout bounds scripts run with a context that has no deadline.
	Timeout time.Duration
	// UtilsGlobal is the global name of the utilities namespace.
	UtilsGlobal string
	// FillScope is passed to the utilities.
	FillScope clientutils.FillScope
}

// Runtime is a persistent JavaScript environment bound to one document.
// Scripts see the document, the event constructors, a console and the
// utilities namespace; their DOM mutations land in the document.
type Runtime struct {
	vm        *goja.Runtime
	bridge    *jsbind.Bridge
	logger    *zap.Logger
	timeout   time.Duration
	execMutex sync.Mutex // serializes script execution
}

// NewRuntime creates a runtime for doc.
func NewRuntime(logger *zap.Logger, doc *dom.Document, opts Options) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("jsexec")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	vm := goja.New()
	bridge := jsbind.NewBridge(vm, doc, logger,
		jsbind.WithUtilsGlobal(opts.UtilsGlobal),
		jsbind.WithUtilsOptions(clientutils.WithFillScope(opts.FillScope)),
	)

	return &Runtime{
		vm:      vm,
		bridge:  bridge,
		logger:  log,
		timeout: timeout,
	}
}

// GetBridge returns the bridge, giving Go code the same utilities and
// element wrappers scripts use.
func (r *Runtime) GetBridge() *jsbind.Bridge {
	return r.bridge
}

// ExecuteScript runs a JavaScript snippet within the persistent VM and
// returns its exported result. A script that is a function expression is
// called with args. Settled promises are unwrapped; a promise still pending
// when the script returns is an error, since there is no event loop to
// settle it later.
func (r *Runtime) ExecuteScript(ctx context.Context, script string, args []interface{}) (interface{}, error) {
	r.execMutex.Lock()
	defer r.execMutex.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// Interrupt the VM when the context ends; the interrupt is cleared after
	// execution so it cannot leak into the next run.
	stop := context.AfterFunc(ctx, func() {
		r.vm.Interrupt(ctx.Err())
	})
	defer func() {
		stop()
		r.vm.ClearInterrupt()
	}()

	var result goja.Value
	var err error
	if r.isFunctionWrapper(script) {
		result, err = r.executeFunctionWrapper(script, args)
	} else {
		if len(args) > 0 {
			r.logger.Debug("Arguments provided to ExecuteScript in snippet mode are ignored.")
		}
		result, err = r.vm.RunString(script)
	}

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("javascript execution interrupted by context: %w", context.Cause(ctx))
		}
		var jsErr *goja.Exception
		if errors.As(err, &jsErr) {
			return nil, exceptionError(jsErr)
		}
		return nil, fmt.Errorf("javascript error: %w", err)
	}

	if obj, ok := result.(*goja.Object); ok && obj.ClassName() == "Promise" {
		if promise, ok := obj.Export().(*goja.Promise); ok {
			return r.settledResult(promise)
		}
	}
	return r.export(result)
}

// exceptionError wraps a script exception. When the thrown value carries a
// Go error, that error is wrapped so errors.As still finds it.
func exceptionError(jsErr *goja.Exception) error {
	if obj, ok := jsErr.Value().(*goja.Object); ok {
		if v := obj.Get("value"); v != nil {
			if goErr, ok := v.Export().(error); ok {
				return fmt.Errorf("javascript exception: %s: %w", jsErr.Value().String(), goErr)
			}
		}
	}
	return fmt.Errorf("javascript exception: %s: %w", jsErr.String(), jsErr)
}

// export converts a result to plain data. Cyclic values are an error
// rather than a graph no encoder can walk.
func (r *Runtime) export(v goja.Value) (interface{}, error) {
	out, err := r.bridge.Export(v)
	if err != nil {
		return nil, fmt.Errorf("javascript result cannot be exported: %w", err)
	}
	return out, nil
}

// isFunctionWrapper uses heuristics to detect common function wrappers.
func (r *Runtime) isFunctionWrapper(script string) bool {
	s := strings.TrimSpace(script)
	if len(s) < 5 {
		return false
	}

	return strings.HasPrefix(s, "(function") || strings.HasPrefix(s, "(async function") ||
		strings.HasPrefix(s, "function") || strings.HasPrefix(s, "async function") ||
		strings.HasPrefix(s, "(()=>") || strings.HasPrefix(s, "(() =>") ||
		strings.HasPrefix(s, "(async (")
}

// executeFunctionWrapper evaluates the script and calls it as a function.
func (r *Runtime) executeFunctionWrapper(script string, args []interface{}) (goja.Value, error) {
	// Parenthesize so a bare function declaration evaluates to the function.
	body := strings.TrimSuffix(strings.TrimSpace(script), ";")
	prog, err := goja.Compile("", "("+body+")", false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile function wrapper script: %w", err)
	}

	val, err := r.vm.RunProgram(prog)
	if err != nil {
		return nil, err
	}

	fn, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("script did not evaluate to a callable function wrapper")
	}

	gojaArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		gojaArgs[i] = r.vm.ToValue(arg)
	}

	return fn(r.vm.GlobalObject(), gojaArgs...)
}

// settledResult unwraps a promise. Promise jobs run before the script
// returns, so anything still pending is waiting on something that will
// never happen.
func (r *Runtime) settledResult(promise *goja.Promise) (interface{}, error) {
	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return r.export(promise.Result())
	case goja.PromiseStateRejected:
		reason := promise.Result()
		if obj, ok := reason.(*goja.Object); ok {
			if v := obj.Get("value"); v != nil {
				if goErr, ok := v.Export().(error); ok {
					return nil, fmt.Errorf("javascript promise rejected: %w", goErr)
				}
			}
		}
		return nil, fmt.Errorf("javascript promise rejected: %s", reason.String())
	default:
		return nil, errors.New("javascript promise did not settle: the runtime has no event loop")
	}
}
