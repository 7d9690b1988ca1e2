package cluster

// Standardized runs KMeans on standardized points and maps the centers back
// into the original space. Labels index into the returned centers.
func Standardized(points []Point, k int, opts Options) (centers []Point, labels []int, err error) {
	scaler := Fit(points)
	res, err := KMeans(scaler.Transform(points), k, opts)
	if err != nil {
		return nil, nil, err
	}
	centers = make([]Point, len(res.Centers))
	for i, c := range res.Centers {
		centers[i] = scaler.Inverse(c)
	}
	return centers, res.Labels, nil
}
