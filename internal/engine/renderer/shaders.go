package renderer

const litVertex = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uViewProj;
uniform mat4 uLightViewProj;

out vec3 vWorld;
out vec3 vNormal;
out vec4 vLightSpace;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorld = world.xyz;
	vNormal = aNormal;
	vLightSpace = uLightViewProj * world;
	gl_Position = uViewProj * world;
}
`

const litFragment = `#version 410 core
in vec3 vWorld;
in vec3 vNormal;
in vec4 vLightSpace;

uniform vec3 uColor;
uniform vec3 uAmbientColor;
uniform float uAmbient;
uniform vec3 uSunColor;
uniform vec3 uSunDir;
uniform float uSun;
uniform vec3 uTopColor;
uniform vec3 uTopDir;
uniform float uTop;
uniform int uShadows;
uniform sampler2DShadow uShadowMap;
uniform int uPointCount;
uniform vec3 uPoints[8];
uniform float uPoint;

out vec4 FragColor;

float shadowFactor() {
	if (uShadows == 0) {
		return 1.0;
	}
	vec3 p = vLightSpace.xyz / vLightSpace.w * 0.5 + 0.5;
	if (p.z > 1.0) {
		return 1.0;
	}
	vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
	float lit = 0.0;
	for (int x = -1; x <= 1; x++) {
		for (int y = -1; y <= 1; y++) {
			lit += texture(uShadowMap, vec3(p.xy + vec2(x, y) * texel, p.z - 0.002));
		}
	}
	return lit / 9.0;
}

void main() {
	vec3 n = normalize(vNormal);
	vec3 light = uAmbientColor * uAmbient;
	light += uSunColor * uSun * max(dot(n, normalize(uSunDir)), 0.0) * shadowFactor();
	light += uTopColor * uTop * max(dot(n, normalize(uTopDir)), 0.0);
	for (int i = 0; i < uPointCount; i++) {
		vec3 d = uPoints[i] - vWorld;
		float att = 1.0 / (1.0 + 0.01 * dot(d, d));
		light += vec3(1.0, 0.85, 0.6) * uPoint * att * max(dot(n, normalize(d)), 0.0);
	}
	FragColor = vec4(uColor * light, 1.0);
}
`

const depthVertex = `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 uModel;
uniform mat4 uLightViewProj;
void main() {
	gl_Position = uLightViewProj * uModel * vec4(aPos, 1.0);
}
`

const depthFragment = `#version 410 core
void main() {}
`

const flatVertex = `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 uModel;
uniform mat4 uViewProj;
void main() {
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
}
`

const flatFragment = `#version 410 core
uniform vec3 uColor;
out vec4 FragColor;
void main() {
	FragColor = vec4(uColor, 1.0);
}
`

const quadVertex = `#version 410 core
layout (location = 0) in vec2 aPos;
out vec2 vUV;
void main() {
	vUV = aPos * 0.5 + 0.5;
	gl_Position = vec4(aPos, 0.0, 1.0);
}
`

const copyFragment = `#version 410 core
in vec2 vUV;
uniform sampler2D uScene;
out vec4 FragColor;
void main() {
	FragColor = texture(uScene, vUV);
}
`

// fxaaFragment is a compact FXAA 3.11 console variant.
const fxaaFragment = `#version 410 core
in vec2 vUV;
uniform sampler2D uScene;
uniform vec2 uTexel;
out vec4 FragColor;

float luma(vec3 c) {
	return dot(c, vec3(0.299, 0.587, 0.114));
}

void main() {
	vec3 rgbNW = texture(uScene, vUV + vec2(-1.0, -1.0) * uTexel).rgb;
	vec3 rgbNE = texture(uScene, vUV + vec2(1.0, -1.0) * uTexel).rgb;
	vec3 rgbSW = texture(uScene, vUV + vec2(-1.0, 1.0) * uTexel).rgb;
	vec3 rgbSE = texture(uScene, vUV + vec2(1.0, 1.0) * uTexel).rgb;
	vec3 rgbM = texture(uScene, vUV).rgb;

	float lNW = luma(rgbNW);
	float lNE = luma(rgbNE);
	float lSW = luma(rgbSW);
	float lSE = luma(rgbSE);
	float lM = luma(rgbM);
	float lMin = min(lM, min(min(lNW, lNE), min(lSW, lSE)));
	float lMax = max(lM, max(max(lNW, lNE), max(lSW, lSE)));

	vec2 dir = vec2(-((lNW + lNE) - (lSW + lSE)), (lNW + lSW) - (lNE + lSE));
	float reduce = max((lNW + lNE + lSW + lSE) * 0.03125, 1.0 / 128.0);
	float rcp = 1.0 / (min(abs(dir.x), abs(dir.y)) + reduce);
	dir = clamp(dir * rcp, vec2(-8.0), vec2(8.0)) * uTexel;

	vec3 a = 0.5 * (texture(uScene, vUV + dir * (1.0 / 3.0 - 0.5)).rgb +
		texture(uScene, vUV + dir * (2.0 / 3.0 - 0.5)).rgb);
	vec3 b = a * 0.5 + 0.25 * (texture(uScene, vUV - dir * 0.5).rgb +
		texture(uScene, vUV + dir * 0.5).rgb);
	float lB = luma(b);
	FragColor = vec4((lB < lMin || lB > lMax) ? a : b, 1.0);
}
`
