// Package tagtree builds the tag hierarchy report: composite tags such as
// "Zone > Cold > @" become a rooted forest whose nodes roll up the quantities
// of every product tagged beneath them.
package tagtree

import (
	"sort"
	"strings"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
)

const (
	// SegmentSeparator splits a composite tag into path segments.
	SegmentSeparator = ">"

	// PathSeparator joins segments into a node's FullPath.
	PathSeparator = " > "

	// ProductPlaceholder is replaced by the product code inside a tag.
	ProductPlaceholder = "@"

	// MissingCode replaces the placeholder for products without a code.
	MissingCode = "?"

	// NoTagLabel is the single-segment path of products that carry no tag.
	NoTagLabel = "(no tag)"
)

// ProductDetail is a product quantity attached to a leaf node.
type ProductDetail struct {
	ProductID       id.ID
	ProductCode     string
	ProductName     string
	Quantity        types.Quantity
	Unit            string
	LotCodes        []string
	IsUnconvertible bool
}

// Entry pairs one tag string with one product detail.
type Entry struct {
	Tag     string
	Product ProductDetail
}

// Node is one segment of the hierarchy.
type Node struct {
	Name     string
	FullPath string

	// TotalQuantity is the sum of direct product quantities and child totals,
	// unconvertible products excluded.
	TotalQuantity types.Quantity

	// Unit is the unit of the first product counted into TotalQuantity.
	Unit string

	IsProduct bool
	Products  []ProductDetail
	Children  []*Node
}

// Segments expands a composite tag for a product code. It returns nil when
// the tag has no usable segment.
func Segments(tag, productCode string) []string {
	if strings.TrimSpace(tag) == "" {
		return []string{NoTagLabel}
	}
	code := productCode
	if strings.TrimSpace(code) == "" {
		code = MissingCode
	}
	expanded := strings.ReplaceAll(tag, ProductPlaceholder, code)

	var out []string
	for _, part := range strings.Split(expanded, SegmentSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

type productKey struct {
	product       id.ID
	code          string
	unit          string
	unconvertible bool
}

// Build assembles the forest. Roots and children keep first-seen order.
func Build(entries []Entry) []*Node {
	var roots []*Node
	nodes := make(map[string]*Node)
	leafIndex := make(map[*Node]map[productKey]int)

	for _, e := range entries {
		segments := Segments(e.Tag, e.Product.ProductCode)
		if len(segments) == 0 {
			continue
		}

		var parent *Node
		path := ""
		for i, seg := range segments {
			if i == 0 {
				path = seg
			} else {
				path += PathSeparator + seg
			}

			node, ok := nodes[path]
			if !ok {
				node = &Node{Name: seg, FullPath: path, TotalQuantity: types.Zero()}
				nodes[path] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}

			if !e.Product.IsUnconvertible {
				node.TotalQuantity = node.TotalQuantity.Add(e.Product.Quantity)
				if node.Unit == "" {
					node.Unit = e.Product.Unit
				}
			}
			parent = node
		}

		addProduct(parent, e.Product, leafIndex)
	}

	for _, n := range nodes {
		sortProducts(n.Products)
	}
	return roots
}

func addProduct(leaf *Node, p ProductDetail, index map[*Node]map[productKey]int) {
	leaf.IsProduct = true
	key := productKey{product: p.ProductID, code: p.ProductCode, unit: p.Unit, unconvertible: p.IsUnconvertible}

	byKey, ok := index[leaf]
	if !ok {
		byKey = make(map[productKey]int)
		index[leaf] = byKey
	}

	if i, ok := byKey[key]; ok {
		cur := &leaf.Products[i]
		cur.Quantity = cur.Quantity.Add(p.Quantity)
		cur.LotCodes = mergeCodes(cur.LotCodes, p.LotCodes)
		return
	}

	p.LotCodes = mergeCodes(nil, p.LotCodes)
	byKey[key] = len(leaf.Products)
	leaf.Products = append(leaf.Products, p)
}

func mergeCodes(dst, src []string) []string {
	for _, c := range src {
		found := false
		for _, d := range dst {
			if d == c {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, c)
		}
	}
	return dst
}

func sortProducts(products []ProductDetail) {
	sort.SliceStable(products, func(i, j int) bool {
		if c := products[i].Quantity.Cmp(products[j].Quantity); c != 0 {
			return c > 0
		}
		return products[i].ProductCode < products[j].ProductCode
	})
}

// Walk visits every node depth-first, parents before children.
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}
