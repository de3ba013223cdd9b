package main

import (
	"flag"
	"log"
	"os"

	"github.com/mogaika/gltfscene/config"
	"github.com/mogaika/gltfscene/loader"
	"github.com/mogaika/gltfscene/registry"
	"github.com/mogaika/gltfscene/scene"
	"github.com/mogaika/gltfscene/utils"
)

func countNodes(n *scene.Node) int {
	total := 1
	for _, child := range n.Children {
		total += countNodes(child)
	}
	return total
}

func main() {
	var inFile, attrsFile string
	var fullDump, serialTextures bool
	flag.StringVar(&inFile, "in", "", "Path to gltf/glb file to load")
	flag.StringVar(&attrsFile, "attrs", "", "Path to yaml file with custom vertex attribute mappings")
	flag.BoolVar(&fullDump, "dump", false, "Dump the whole assembled document")
	flag.BoolVar(&serialTextures, "serialtextures", false, "Decode textures one by one")
	flag.Parse()

	if inFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	if attrsFile != "" {
		attrsData, err := os.ReadFile(attrsFile)
		if err != nil {
			panic(err)
		}
		if err := config.LoadVertexAttributesYAML(attrsData); err != nil {
			panic(err)
		}
	}

	data, err := os.ReadFile(inFile)
	if err != nil {
		panic(err)
	}

	result, err := loader.Load(data, inFile, loader.Options{
		ReadBytes:            os.ReadFile,
		DisableTextureFanOut: serialTextures,
	})
	if err != nil {
		panic(err)
	}

	doc := result.Document
	log.Printf("Loaded %s: %d scenes, %d meshes, %d materials, %d nodes, %d skins, %d animations",
		inFile, len(doc.Scenes), len(doc.Meshes), len(doc.Materials),
		len(doc.Nodes), len(doc.Skins), len(doc.Animations))

	for _, handle := range doc.Scenes {
		sc, ok := registry.Resolve[*scene.Scene](handle)
		if !ok {
			continue
		}
		total := 0
		for _, root := range sc.RootNodes {
			if node, ok := registry.Resolve[*scene.Node](root); ok {
				total += countNodes(node)
			}
		}
		log.Printf("Scene %q: %d roots, %d nodes total, %d skin bindings, %d animation roots",
			sc.Name, len(sc.RootNodes), total, len(sc.SkinBindings), len(sc.AnimationRoots))
	}

	for _, handle := range doc.Meshes {
		mesh, ok := registry.Resolve[*scene.Mesh](handle)
		if !ok {
			continue
		}
		for pi, prim := range mesh.Primitives {
			log.Printf("Mesh %q primitive %d: %s, %d vertices, %d attributes",
				mesh.Name, pi, prim.Topology, prim.VertexCount(), len(prim.Attributes))
		}
	}

	if fullDump {
		utils.Dump(doc)
	}
}
