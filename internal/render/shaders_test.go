package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeshShaderDeclaresUniforms(t *testing.T) {
	t.Parallel()

	src := meshVertSrc + meshFragSrc
	for _, u := range []struct{ typ, name string }{
		{"mat4", "uModel"}, {"mat4", "uView"}, {"mat4", "uProj"},
		{"vec3", "uColor"}, {"int", "uMode"}, {"float", "uAmbient"},
		{"vec3", "uSunTint"}, {"vec3", "uSunDir"}, {"vec3", "uSky"},
		{"vec3", "uEye"}, {"float", "uTime"}, {"float", "uNight"},
		{"vec3", "uRoad"},
	} {
		decl := fmt.Sprintf("uniform %s %s;", u.typ, u.name)
		assert.Contains(t, src, decl)
	}
}

func TestTerrainRoadColourIsUniform(t *testing.T) {
	t.Parallel()

	assert.Contains(t, meshFragSrc, "c = uRoad;")
	assert.False(t, strings.Contains(meshFragSrc, "vec3(0.28, 0.28, 0.30)"))
}
