package jscore

import (
	"log/slog"

	jscengine "github.com/robbyt/go-jscore/engines/javascriptcore"
	"github.com/robbyt/go-jscore/platform"
	"github.com/robbyt/go-jscore/platform/script/loader"
)

// FromJavaScriptLoader creates an evaluator for the script from ldr. Input
// is added at runtime with AddDataToContext.
func FromJavaScriptLoader(logHandler slog.Handler, ldr loader.Loader) (platform.Evaluator, error) {
	be, err := jscengine.FromJavaScriptCoreLoader(logHandler, ldr)
	if err != nil {
		return nil, err
	}
	return be, nil
}

// FromJavaScriptLoaderWithData creates an evaluator for the script from ldr
// whose input starts with staticData.
func FromJavaScriptLoaderWithData(
	logHandler slog.Handler,
	ldr loader.Loader,
	staticData map[string]any,
) (platform.Evaluator, error) {
	be, err := jscengine.FromJavaScriptCoreLoaderWithData(logHandler, ldr, staticData)
	if err != nil {
		return nil, err
	}
	return be, nil
}

// FromJavaScriptString creates an evaluator for inline script content.
func FromJavaScriptString(content string, logHandler slog.Handler) (platform.Evaluator, error) {
	ldr, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return FromJavaScriptLoader(logHandler, ldr)
}

// FromJavaScriptStringWithData creates an evaluator for inline script
// content with static input data.
func FromJavaScriptStringWithData(
	content string,
	staticData map[string]any,
	logHandler slog.Handler,
) (platform.Evaluator, error) {
	ldr, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return FromJavaScriptLoaderWithData(logHandler, ldr, staticData)
}

// FromJavaScriptFile creates an evaluator for a script file.
func FromJavaScriptFile(filePath string, logHandler slog.Handler) (platform.Evaluator, error) {
	ldr, err := loader.NewFromDisk(filePath)
	if err != nil {
		return nil, err
	}
	return FromJavaScriptLoader(logHandler, ldr)
}

// FromJavaScriptFileWithData creates an evaluator for a script file with
// static input data.
func FromJavaScriptFileWithData(
	filePath string,
	staticData map[string]any,
	logHandler slog.Handler,
) (platform.Evaluator, error) {
	ldr, err := loader.NewFromDisk(filePath)
	if err != nil {
		return nil, err
	}
	return FromJavaScriptLoaderWithData(logHandler, ldr, staticData)
}

// FromJavaScript infers a loader from input (a script, a file path, bytes,
// an io.Reader or a loader.Loader) and creates an evaluator for it.
func FromJavaScript(input any, logHandler slog.Handler) (platform.Evaluator, error) {
	ldr, err := loader.InferLoader(input)
	if err != nil {
		return nil, err
	}
	return FromJavaScriptLoader(logHandler, ldr)
}
