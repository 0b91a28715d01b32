package scene

import rl "github.com/gen2brain/raylib-go/raylib"

// Skybox shader: the cube is drawn around the eye with the view translation removed, sampling
// the cubemap by direction.
const (
	skyboxVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
out vec3 fragDirection;
void main() {
  fragDirection = vertexPosition;
  mat4 rotView = mat4(mat3(matView));
  vec4 clipPos = matProjection * rotView * vec4(vertexPosition, 1.0);
  gl_Position = clipPos.xyww;
}
`
	skyboxFS = `#version 330
in vec3 fragDirection;
uniform samplerCube environmentMap;
out vec4 finalColor;
void main() {
  finalColor = vec4(texture(environmentMap, fragDirection).rgb, 1.0);
}
`
)

// Reflective Phong: ambient plus one directional light, multiplied by the environment seen in
// the reflected view direction, plus a specular highlight. Back faces are lit with the
// flipped normal so the open teapot reads from inside too.
const (
	phongVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	phongFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform float reflectivity;
uniform float hasEnvironment;
uniform samplerCube environmentMap;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  if (!gl_FrontFacing) N = -N;
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 lit = ambient.rgb + NdotL * lightColor * lightIntensity;
  vec3 env = vec3(1.0);
  if (hasEnvironment > 0.5) {
    env = mix(vec3(1.0), texture(environmentMap, reflect(-V, N)).rgb, reflectivity);
  }
  vec3 R = reflect(-L, N);
  float spec = pow(max(dot(R, V), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * lightIntensity * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(colDiffuse.rgb * lit * env + specular, colDiffuse.a);
}
`
)

// Lights are the uniform values of the Phong shader.
type Lights struct {
	Ambient      rl.Color
	Color        rl.Color
	Intensity    float32
	Direction    rl.Vector3 // direction the light travels
	Shininess    float32
	Specular     float32
	Reflectivity float32
}

// DefaultSpecular is the usual Phong specular colour 0x111111 as a single strength.
const DefaultSpecular = float32(0x11) / 255

// phongShader wraps the reflective shader and its uniform locations.
type phongShader struct {
	shader rl.Shader
	locs   map[string]int32
}

var phongUniforms = []string{
	"viewPos", "lightDir", "ambient", "lightColor", "lightIntensity",
	"specularPower", "specularStrength", "reflectivity", "hasEnvironment",
}

func loadPhongShader() phongShader {
	p := phongShader{shader: rl.LoadShaderFromMemory(phongVS, phongFS), locs: map[string]int32{}}
	if !rl.IsShaderValid(p.shader) {
		return p
	}
	for _, name := range phongUniforms {
		p.locs[name] = rl.GetShaderLocation(p.shader, name)
	}
	p.shader.UpdateLocation(rl.ShaderLocMapCubemap, rl.GetShaderLocation(p.shader, "environmentMap"))
	return p
}

// setLights uploads the light uniforms (cgo-safe: local arrays).
func (p phongShader) setLights(l Lights, hasEnvironment bool) {
	if !rl.IsShaderValid(p.shader) {
		return
	}
	amb := colorVec4(l.Ambient)
	col := colorVec4(l.Color)
	toLight := toLightDir(l.Direction)
	p.setVec(amb[:], "ambient", rl.ShaderUniformVec4)
	p.setVec(col[:3], "lightColor", rl.ShaderUniformVec3)
	p.setVec(toLight[:], "lightDir", rl.ShaderUniformVec3)
	p.setFloat("lightIntensity", l.Intensity)
	p.setFloat("specularPower", l.Shininess)
	p.setFloat("specularStrength", l.Specular)
	p.setFloat("reflectivity", l.Reflectivity)
	env := float32(0)
	if hasEnvironment {
		env = 1
	}
	p.setFloat("hasEnvironment", env)
}

func (p phongShader) setViewPos(pos rl.Vector3) {
	v := [3]float32{pos.X, pos.Y, pos.Z}
	p.setVec(v[:], "viewPos", rl.ShaderUniformVec3)
}

func (p phongShader) setVec(v []float32, name string, typ rl.ShaderUniformDataType) {
	if loc, ok := p.locs[name]; ok && loc >= 0 {
		rl.SetShaderValueV(p.shader, loc, v, typ, 1)
	}
}

func (p phongShader) setFloat(name string, f float32) {
	if loc, ok := p.locs[name]; ok && loc >= 0 {
		rl.SetShaderValue(p.shader, loc, []float32{f}, rl.ShaderUniformFloat)
	}
}

// colorVec4 converts a colour to normalized RGBA.
func colorVec4(c rl.Color) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

// toLightDir turns the direction a light travels into the unit vector pointing at the light.
// A zero direction lights from straight above.
func toLightDir(travel rl.Vector3) [3]float32 {
	if rl.Vector3Length(travel) == 0 {
		return [3]float32{0, 1, 0}
	}
	d := rl.Vector3Normalize(rl.Vector3Negate(travel))
	return [3]float32{d.X, d.Y, d.Z}
}
