package platform

import (
	"log"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/skelview/engine/view"
)

// DetectCapabilities inspects the current GL context and the Vulkan loader.
// It must run on the main thread after NewGLFWWindow.
func DetectCapabilities() view.Capabilities {
	caps := view.Capabilities{
		Vulkan:   glfw.VulkanSupported(),
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	var samples int32
	gl.GetIntegerv(gl.MAX_SAMPLES, &samples)
	caps.MaxSamples = int(samples)

	if caps.Vulkan {
		log.Println("Vulkan is supported on this device")
	} else {
		log.Println("Vulkan not supported, using OpenGL")
	}
	log.Printf("GPU: %s (%s), GL %s, max MSAA %d", caps.Renderer, strings.TrimSpace(caps.Vendor), caps.Version, caps.MaxSamples)
	return caps
}

// VulkanSupported initialises GLFW and reports whether a Vulkan loader is
// present. Unlike DetectCapabilities it needs no window.
func VulkanSupported() bool {
	if err := glfw.Init(); err != nil {
		log.Printf("glfw init: %v", err)
		return false
	}
	return glfw.VulkanSupported()
}
