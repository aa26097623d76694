package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Lit mesh shader shared by tiles, water and boxes.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;
out vec3 vNormal;
out vec2 vUV;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorld = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    vUV = aUV;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// uMode: 0 flat colour, 1 terrain (road/rock/grass by height and slope),
// 2 water.
const meshFragSrc = `#version 410 core

uniform vec3 uColor;
uniform int uMode;
uniform float uAmbient;
uniform vec3 uSunTint;
uniform vec3 uSunDir;
uniform vec3 uSky;
uniform vec3 uEye;
uniform float uTime;
uniform float uNight;
uniform vec3 uRoad;

in vec3 vWorld;
in vec3 vNormal;
in vec2 vUV;
out vec4 FragColor;

vec3 terrain(vec3 n) {
    float slope = 1.0 - clamp(n.y, 0.0, 1.0);
    vec3 grass = vec3(0.24, 0.42, 0.18);
    vec3 rock = vec3(0.45, 0.40, 0.36);
    vec3 sand = vec3(0.70, 0.64, 0.46);
    vec3 c = mix(grass, rock, smoothstep(0.25, 0.55, slope));
    c = mix(sand, c, smoothstep(-2.5, -1.0, vWorld.y));
    // Road band: flat cells at height zero. UV x is whole at the edges and
    // the centre line, which get dashes.
    if (abs(vWorld.y) < 0.001 && n.y > 0.999) {
        c = uRoad;
        float across = fract(vUV.x);
        float along = fract(vUV.y * 2.0);
        if (min(across, 1.0 - across) < 0.02 && along < 0.5) {
            c = vec3(0.92, 0.90, 0.80);
        }
    }
    return c;
}

void main() {
    vec3 n = normalize(vNormal);
    vec3 base = uColor;
    float alpha = 1.0;
    if (uMode == 1) {
        base = terrain(n);
    } else if (uMode == 2) {
        float ripple = sin(vWorld.x * 0.3 + uTime) * sin(vWorld.z * 0.27 + uTime * 0.8);
        base = uColor + vec3(0.03) * ripple;
        alpha = 0.85;
    }
    float diffuse = max(dot(n, normalize(uSunDir)), 0.0);
    vec3 lit = base * (0.35 + 0.65 * diffuse) * uAmbient * uSunTint;
    if (uMode == 0) {
        lit += base * 0.45 * uNight;
    }
    float dist = length(vWorld - uEye);
    float fog = smoothstep(150.0, 420.0, dist);
    FragColor = vec4(mix(lit, uSky, fog), alpha);
}
` + "\x00"

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
