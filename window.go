package main

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/stewi1014/glmandel/input"
)

//go:embed shaders/blit.vert
var blitVertexShader string

//go:embed shaders/blit.frag
var blitFragmentShader string

// Window owns the GLFW window, the GL presentation path and the input
// event queue. Presentation is a texture the size of the pixel grid,
// blitted with a fullscreen triangle; Present uploads a colour buffer
// into it.
//
// All methods must be called from the locked main thread.
type Window struct {
	*glfw.Window

	width  int
	height int

	program uint32
	vao     uint32
	vbo     uint32
	texture uint32

	events []input.Event
}

func NewWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &Window{
		Window: window,
		width:  width,
		height: height,
	}

	w.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}
	glfw.SwapInterval(1)

	if err := w.setupBlit(); err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, err
	}

	w.SetCursorPosCallback(w.onCursorPos)
	w.SetMouseButtonCallback(w.onMouseButton)
	w.SetScrollCallback(w.onScroll)
	w.SetKeyCallback(w.onKey)
	w.SetCloseCallback(func(*glfw.Window) {
		w.events = append(w.events, input.CloseRequest{})
	})

	return w, nil
}

func (w *Window) setupBlit() error {
	verticies := []float32{
		-3, -2,
		0, 3,
		3, -2,
	}

	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	program, err := linkProgram(blitVertexShader, blitFragmentShader)
	if err != nil {
		return err
	}
	w.program = program
	gl.UseProgram(w.program)
	gl.BindFragDataLocation(w.program, 0, gl.Str("outputColor\x00"))

	vertexAttrib := uint32(gl.GetAttribLocation(w.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(vertexAttrib)
	gl.VertexAttribPointerWithOffset(vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	gl.GenTextures(1, &w.texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	// Zero-fill so the window shows black until the first frame lands.
	blank := make([]byte, w.width*w.height*4)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(w.width), int32(w.height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(blank),
	)
	gl.Uniform1i(gl.GetUniformLocation(w.program, gl.Str("frame\x00")), 0)

	// Framebuffer size can exceed the window size on scaled displays.
	fbWidth, fbHeight := w.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	return nil
}

// PollEvents pumps the window system and returns the input events that
// arrived since the last call.
func (w *Window) PollEvents() []input.Event {
	w.events = w.events[:0]
	glfw.PollEvents()
	return w.events
}

// Upload replaces the presented image with an RGBA colour buffer of
// the window's pixel grid. The buffer is not retained.
func (w *Window) Upload(colors []byte) {
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(
		gl.TEXTURE_2D, 0, 0, 0,
		int32(w.width), int32(w.height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(colors),
	)
}

// Present draws the current texture and swaps buffers. With vsync on
// this paces the frame loop.
func (w *Window) Present() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(w.program)
	gl.BindVertexArray(w.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	w.SwapBuffers()
}

// Close releases GL objects, the window and the library.
func (w *Window) Close() {
	gl.DeleteTextures(1, &w.texture)
	gl.DeleteBuffers(1, &w.vbo)
	gl.DeleteVertexArrays(1, &w.vao)
	gl.DeleteProgram(w.program)
	w.Destroy()
	glfw.Terminate()
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	w.events = append(w.events, input.PointerMove{X: x, Y: y})
}

func (w *Window) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	x, y := w.GetCursorPos()
	switch action {
	case glfw.Press:
		w.events = append(w.events, input.PointerPress{X: x, Y: y})
	case glfw.Release:
		w.events = append(w.events, input.PointerRelease{X: x, Y: y})
	}
}

func (w *Window) onScroll(_ *glfw.Window, _, yoff float64) {
	w.events = append(w.events, input.Scroll{Notches: yoff})
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	var mapped input.Action
	switch key {
	case glfw.KeyEqual, glfw.KeyKPAdd:
		mapped = input.ActionZoomIn
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		mapped = input.ActionZoomOut
	case glfw.KeyHome:
		mapped = input.ActionReset
	case glfw.KeyEscape, glfw.KeyQ:
		mapped = input.ActionQuit
	default:
		return
	}
	w.events = append(w.events, input.Key{Action: mapped})
}

func linkProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSource+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(program, l, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, log)
	}

	return shader, nil
}
