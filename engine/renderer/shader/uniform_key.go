package shader

// UniformKey is the strongly typed name of a uniform slot used by the frame pipeline.
// Every key maps to exactly one slot name as written in program descriptors.
type UniformKey int

const (
	UniformObjectToWorld UniformKey = iota
	UniformWorldToShadowMap
	UniformMaterialGloss
	UniformMaterialMetalness
	UniformMaterialSpecularColor
	UniformMaterialDiffuseColor
	UniformMaterialDiffuseMap
	UniformMaterialNormalMap
	UniformShadowWorldToShadow
	UniformShadowMap
	UniformEnvironmentWorldToEnvironment
	UniformEnvironmentMap
	UniformEnvironmentLevelOfDetailCount
	UniformCamera
	UniformLighting
	UniformSkyboxCubeMap
	UniformClipToWorld
	uniformKeyCount
)

var uniformKeyNames = [uniformKeyCount]string{
	UniformObjectToWorld:                 "Object_To_World",
	UniformWorldToShadowMap:              "World_To_Shadow_Map",
	UniformMaterialGloss:                 "Material.gloss",
	UniformMaterialMetalness:             "Material.metalness",
	UniformMaterialSpecularColor:         "Material.specular_color",
	UniformMaterialDiffuseColor:          "Material.diffuse_color",
	UniformMaterialDiffuseMap:            "Material.diffuse_map",
	UniformMaterialNormalMap:             "Material.normal_map",
	UniformShadowWorldToShadow:           "Shadow.world_to_shadow",
	UniformShadowMap:                     "Shadow.map",
	UniformEnvironmentWorldToEnvironment: "Environment.world_to_environment",
	UniformEnvironmentMap:                "Environment.map",
	UniformEnvironmentLevelOfDetailCount: "Environment.level_of_detail_count",
	UniformCamera:                        "Camera",
	UniformLighting:                      "Lighting",
	UniformSkyboxCubeMap:                 "skybox_cube_map",
	UniformClipToWorld:                   "Clip_To_World",
}

// Name returns the slot name the key resolves through.
func (k UniformKey) Name() string {
	if k < 0 || k >= uniformKeyCount {
		return ""
	}
	return uniformKeyNames[k]
}

func (k UniformKey) String() string {
	return k.Name()
}

// UniformKeyByName returns the key whose slot name is name.
//
// Parameters:
//   - name: a slot name such as "Material.gloss"
//
// Returns:
//   - UniformKey: the matching key
//   - bool: false when no key uses that name
func UniformKeyByName(name string) (UniformKey, bool) {
	for k, n := range uniformKeyNames {
		if n == name {
			return UniformKey(k), true
		}
	}
	return 0, false
}

// UniformKeyNames returns the slot names of the given keys in order, ready to be used as a
// program descriptor's uniform list.
func UniformKeyNames(keys ...UniformKey) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name()
	}
	return names
}
